package materialdomain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/snbtku/backend/snbt"
)

type Kind string

const (
	KindSummary Kind = "summary"
	KindVideo   Kind = "video"
	KindNotes   Kind = "notes"
)

type Material struct {
	ID           string
	Title        string
	Subtest      snbt.Subtest
	Topic        string
	Description  string
	Rating       float64
	LastUpdated  time.Time
	Difficulty   snbt.Difficulty
	IsBookmarked bool
	CreatedBy    string
	CreatedAt    time.Time
	Body         Body
}

// Body holds the per-kind fields: Summary, Video or Notes.
type Body interface {
	Kind() Kind
}

type Summary struct {
	ReadTime string
	Views    int
	Content  string
}

type Video struct {
	Duration   string
	Views      int
	Channel    string
	Thumbnail  string
	UploadDate time.Time
	VideoURL   string
}

type Notes struct {
	FileType  string
	FileSize  string
	Downloads int
	FileURL   string
}

func (Summary) Kind() Kind { return KindSummary }
func (Video) Kind() Kind   { return KindVideo }
func (Notes) Kind() Kind   { return KindNotes }

func (m *Material) Kind() Kind {
	if m.Body == nil {
		return ""
	}
	return m.Body.Kind()
}

// Views is zero for notes.
func (m *Material) Views() int {
	switch b := m.Body.(type) {
	case Summary:
		return b.Views
	case Video:
		return b.Views
	}
	return 0
}

// StoredFileURL is the URL of the object owned by this material, if any.
func (m *Material) StoredFileURL() string {
	switch b := m.Body.(type) {
	case Video:
		return b.Thumbnail
	case Notes:
		return b.FileURL
	}
	return ""
}

func (m *Material) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return errors.New("material title must not be empty")
	}
	if !m.Subtest.Valid() {
		return fmt.Errorf("unknown subtest %q", m.Subtest)
	}
	if !m.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", m.Difficulty)
	}
	if m.Rating < 0 || m.Rating > 5 {
		return errors.New("rating must be between 0 and 5")
	}
	switch b := m.Body.(type) {
	case Summary:
		if strings.TrimSpace(b.Content) == "" {
			return errors.New("summary content must not be empty")
		}
	case Video:
		if strings.TrimSpace(b.VideoURL) == "" {
			return errors.New("video url must not be empty")
		}
	case Notes:
	case nil:
		return errors.New("material has no type")
	}
	return nil
}

type materialJSON struct {
	ID           string          `json:"id"`
	Type         Kind            `json:"type"`
	Title        string          `json:"title"`
	Subtest      snbt.Subtest    `json:"subtest"`
	Topic        string          `json:"topic"`
	Description  string          `json:"description"`
	Rating       float64         `json:"rating"`
	LastUpdated  time.Time       `json:"lastUpdated"`
	Difficulty   snbt.Difficulty `json:"difficulty"`
	IsBookmarked bool            `json:"isBookmarked,omitempty"`
	CreatedBy    string          `json:"createdBy,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`

	ReadTime   string     `json:"readTime,omitempty"`
	Views      *int       `json:"views,omitempty"`
	Content    string     `json:"content,omitempty"`
	Duration   string     `json:"duration,omitempty"`
	Channel    string     `json:"channel,omitempty"`
	Thumbnail  string     `json:"thumbnail,omitempty"`
	UploadDate *time.Time `json:"uploadDate,omitempty"`
	VideoURL   string     `json:"videoUrl,omitempty"`
	FileType   string     `json:"fileType,omitempty"`
	FileSize   string     `json:"fileSize,omitempty"`
	Downloads  *int       `json:"downloads,omitempty"`
	FileURL    string     `json:"fileUrl,omitempty"`
}

func (m Material) MarshalJSON() ([]byte, error) {
	out := materialJSON{
		ID:           m.ID,
		Title:        m.Title,
		Subtest:      m.Subtest,
		Topic:        m.Topic,
		Description:  m.Description,
		Rating:       m.Rating,
		LastUpdated:  m.LastUpdated,
		Difficulty:   m.Difficulty,
		IsBookmarked: m.IsBookmarked,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
	}
	switch b := m.Body.(type) {
	case Summary:
		out.Type = KindSummary
		out.ReadTime = b.ReadTime
		out.Views = &b.Views
		out.Content = b.Content
	case Video:
		out.Type = KindVideo
		out.Duration = b.Duration
		out.Views = &b.Views
		out.Channel = b.Channel
		out.Thumbnail = b.Thumbnail
		if !b.UploadDate.IsZero() {
			out.UploadDate = &b.UploadDate
		}
		out.VideoURL = b.VideoURL
	case Notes:
		out.Type = KindNotes
		out.FileType = b.FileType
		out.FileSize = b.FileSize
		out.Downloads = &b.Downloads
		out.FileURL = b.FileURL
	}
	return json.Marshal(out)
}

func (m *Material) UnmarshalJSON(data []byte) error {
	var in materialJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	deref := func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	}
	var body Body
	switch in.Type {
	case KindSummary:
		body = Summary{ReadTime: in.ReadTime, Views: deref(in.Views), Content: in.Content}
	case KindVideo:
		v := Video{
			Duration:  in.Duration,
			Views:     deref(in.Views),
			Channel:   in.Channel,
			Thumbnail: in.Thumbnail,
			VideoURL:  in.VideoURL,
		}
		if in.UploadDate != nil {
			v.UploadDate = *in.UploadDate
		}
		body = v
	case KindNotes:
		body = Notes{FileType: in.FileType, FileSize: in.FileSize, Downloads: deref(in.Downloads), FileURL: in.FileURL}
	default:
		return fmt.Errorf("unknown material type %q", in.Type)
	}
	*m = Material{
		ID:           in.ID,
		Title:        in.Title,
		Subtest:      in.Subtest,
		Topic:        in.Topic,
		Description:  in.Description,
		Rating:       in.Rating,
		LastUpdated:  in.LastUpdated,
		Difficulty:   in.Difficulty,
		IsBookmarked: in.IsBookmarked,
		CreatedBy:    in.CreatedBy,
		CreatedAt:    in.CreatedAt,
		Body:         body,
	}
	return nil
}

// Downloads is zero for everything but notes.
func (m *Material) Downloads() int {
	if b, ok := m.Body.(Notes); ok {
		return b.Downloads
	}
	return 0
}

// WithCounts returns m with its view or download counter replaced. The
// counter that does not apply to the kind is ignored.
func (m Material) WithCounts(views, downloads int) Material {
	switch b := m.Body.(type) {
	case Summary:
		b.Views = views
		m.Body = b
	case Video:
		b.Views = views
		m.Body = b
	case Notes:
		b.Downloads = downloads
		m.Body = b
	}
	return m
}
