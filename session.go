package posture

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// progressVersion is the snapshot format version written by SaveProgress.
const progressVersion = "1.0"

// Session holds the mutable state of one assessment in progress: who is being
// assessed, the answers collected so far, and the current question index.
// A Session is owned by a single caller (typically the UI shell); report
// generation never reads a live Session, only a Snapshot of it.
type Session struct {
	ID       uuid.UUID
	OrgName  string
	Assessor string
	Date     string // ISO date, e.g. 2026-08-25
	Answers  map[string]Answer
	Index    int // current question position, for resume
}

// NewSession creates an empty session for the given control set. Every
// control starts unanswered.
func NewSession(controls []Control, orgName, assessor, date string) *Session {
	answers := make(map[string]Answer, len(controls))
	for _, c := range controls {
		answers[c.ID] = Unanswered
	}
	return &Session{
		ID:       uuid.New(),
		OrgName:  orgName,
		Assessor: assessor,
		Date:     date,
		Answers:  answers,
		Index:    0,
	}
}

// Snapshot returns a deep copy of the session. Generation runs against the
// copy, so a report can be produced while answering continues elsewhere.
func (s *Session) Snapshot() *Session {
	answers := make(map[string]Answer, len(s.Answers))
	for id, a := range s.Answers {
		answers[id] = a
	}
	return &Session{
		ID:       s.ID,
		OrgName:  s.OrgName,
		Assessor: s.Assessor,
		Date:     s.Date,
		Answers:  answers,
		Index:    s.Index,
	}
}

// progressFile is the save/resume wire format. Field names match the
// historical snapshot files, so old progress files keep loading.
type progressFile struct {
	OrgName  string            `json:"org_name"`
	Assessor string            `json:"assessor"`
	Date     string            `json:"date"`
	Answers  map[string]Answer `json:"answers"`
	Index    int               `json:"idx"`
	Version  string            `json:"version"`
	ID       string            `json:"session_id,omitempty"`
}

// SaveProgress serializes the session to the progress snapshot format.
func (s *Session) SaveProgress() ([]byte, error) {
	data, err := json.MarshalIndent(progressFile{
		OrgName:  s.OrgName,
		Assessor: s.Assessor,
		Date:     s.Date,
		Answers:  s.Answers,
		Index:    s.Index,
		Version:  progressVersion,
		ID:       s.ID.String(),
	}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode progress")
	}
	return data, nil
}

// LoadProgress restores a session from a progress snapshot. Answer values are
// taken verbatim; the scoring engine performs the only validation (the
// unanswered check).
func LoadProgress(data []byte) (*Session, error) {
	var pf progressFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, errors.Wrap(err, "failed to parse progress file")
	}
	if pf.Answers == nil {
		pf.Answers = make(map[string]Answer)
	}
	id := uuid.Nil
	if pf.ID != "" {
		parsed, err := uuid.Parse(pf.ID)
		if err == nil {
			id = parsed
		}
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Session{
		ID:       id,
		OrgName:  pf.OrgName,
		Assessor: pf.Assessor,
		Date:     pf.Date,
		Answers:  pf.Answers,
		Index:    pf.Index,
	}, nil
}
