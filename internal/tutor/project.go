package tutor

import "codetutor/internal/model"

// Project is an ordered sequence of slides with a title, a current slide
// index, and a project-wide preview/edit mode. Preview mode shows the
// last-frozen slide state; edits made while previewing are discarded when
// returning to edit mode.
//
// A project loaded for viewing starts in preview mode until the viewer is
// confirmed as owner.
type Project struct {
	title      string
	slides     []*Slide
	slideIndex int
	preview    bool
	savedID    string
	createdBy  string
	clock      Clock
	idgen      IDGenerator
}

// NewProject builds a project from deserialized data. savedID and
// createdBy are empty for a project that has never been persisted.
func NewProject(data model.ProjectData, savedID, createdBy string, clock Clock, idgen IDGenerator) *Project {
	p := &Project{
		title:     data.Title,
		savedID:   savedID,
		createdBy: createdBy,
		preview:   true,
		clock:     clock,
		idgen:     idgen,
	}
	for _, sd := range data.Slides {
		p.slides = append(p.slides, NewSlide(sd, clock, idgen))
	}
	// Freeze the loaded state so preview has a baseline to restore.
	for _, slide := range p.slides {
		slide.Freeze()
	}
	return p
}

func (p *Project) Title() string     { return p.title }
func (p *Project) SetTitle(t string) { p.title = t }
func (p *Project) SlideIndex() int   { return p.slideIndex }
func (p *Project) SlideCount() int   { return len(p.slides) }
func (p *Project) PreviewMode() bool { return p.preview }
func (p *Project) SavedID() string   { return p.savedID }
func (p *Project) CreatedBy() string { return p.createdBy }

// Slides returns the ordered slide list.
func (p *Project) Slides() []*Slide { return p.slides }

// Slide returns the slide at index, or nil when out of range.
func (p *Project) Slide(index int) *Slide {
	if index < 0 || index >= len(p.slides) {
		return nil
	}
	return p.slides[index]
}

// CurrentSlide returns the slide at the current index, or nil for an
// empty project.
func (p *Project) CurrentSlide() *Slide { return p.Slide(p.slideIndex) }

// AddSlide appends a new slide built from the given data and returns its
// index.
func (p *Project) AddSlide(data model.SlideData) int {
	p.slides = append(p.slides, NewSlide(data, p.clock, p.idgen))
	return len(p.slides) - 1
}

// RemoveSlide removes the slide at index. Out-of-range indexes are a
// no-op. If the current slide index points past the end afterwards, it is
// clamped to the slide before the removed one.
func (p *Project) RemoveSlide(index int) {
	if index < 0 || index >= len(p.slides) {
		return
	}
	p.slides = append(p.slides[:index], p.slides[index+1:]...)
	if p.slideIndex >= len(p.slides) {
		p.slideIndex = max(0, index-1)
	}
}

// SetSlide navigates to the slide at index. Out-of-range indexes are
// ignored: they typically come from stale UI events firing after state
// has moved on. In preview mode the target slide is reset first so
// preview always shows its last-frozen content, not in-memory edits from
// a prior visit.
func (p *Project) SetSlide(index int) {
	if index < 0 || index >= len(p.slides) {
		return
	}
	if p.preview {
		p.slides[index].Reset()
	}
	p.slideIndex = index
}

// SetPreviewMode toggles between edit and preview. Entering preview
// freezes every slide, capturing the edit-mode content as the new
// baseline. Leaving preview resets every slide from its last freeze,
// discarding anything that accumulated while previewing.
func (p *Project) SetPreviewMode(preview bool) {
	if preview {
		for _, slide := range p.slides {
			slide.Freeze()
		}
		p.preview = true
		return
	}
	for _, slide := range p.slides {
		slide.Reset()
	}
	p.preview = false
}

// MarkSaved records the persistence identity after a successful save.
func (p *Project) MarkSaved(savedID, createdBy string) {
	p.savedID = savedID
	p.createdBy = createdBy
}

// Serialize returns the exact payload persisted externally.
func (p *Project) Serialize() model.ProjectData {
	data := model.ProjectData{
		Title:  p.title,
		Slides: make([]model.SlideData, 0, len(p.slides)),
	}
	for _, slide := range p.slides {
		data.Slides = append(data.Slides, slide.Serialize())
	}
	return data
}
