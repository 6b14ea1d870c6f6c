// Package archive reads and writes encrypted project bundles. A bundle
// is a single project payload, JSON-encoded and encrypted with a
// passphrase using filippo.io/age's scrypt-based passphrase encryption,
// so it can be shared or backed up outside the project store.
package archive

import (
	"encoding/json"
	"fmt"
	"io"

	"filippo.io/age"

	"codetutor/internal/model"
)

// Export encodes the project and writes the encrypted bundle to w.
func Export(w io.Writer, data model.ProjectData, passphrase string) error {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}

	encWriter, err := age.Encrypt(w, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}

	if err := json.NewEncoder(encWriter).Encode(data); err != nil {
		return fmt.Errorf("encoding project: %w", err)
	}

	if err := encWriter.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}

	return nil
}

// Import decrypts a bundle from r and decodes the project payload.
// A wrong passphrase surfaces as a decryption error before any JSON is
// read.
func Import(r io.Reader, passphrase string) (*model.ProjectData, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	decReader, err := age.Decrypt(r, identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting bundle: %w", err)
	}

	var data model.ProjectData
	if err := json.NewDecoder(decReader).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding project: %w", err)
	}

	return &data, nil
}
