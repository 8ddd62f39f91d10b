package helprequest

// HelpRequest is a user-submitted help desk ticket. The JSON-LD keys (@id,
// @type) are kept so records round-trip through the dataset document.
type HelpRequest struct {
	ID          string   `json:"id" bson:"_id"`
	LDID        string   `json:"@id,omitempty" bson:"@id,omitempty"`
	LDType      string   `json:"@type,omitempty" bson:"@type,omitempty"`
	From        string   `json:"from" bson:"from"`
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description" bson:"description"`
	Time        string   `json:"time" bson:"time"`
	Priority    int      `json:"priority" bson:"priority"`
	Comments    []string `json:"comments" bson:"comments"`
}

// LDType value for newly created records.
const TypeHelpTicket = "helpdesk:HelpTicket"

// Priorities is the ordered priority enumeration; a record's Priority is an
// index into it.
var Priorities = []string{"closed", "low", "normal", "high"}

const (
	PriorityClosed = iota
	PriorityLow
	PriorityNormal
	PriorityHigh
)

// PriorityName returns the label for p, or "" when p is outside the enumeration.
func PriorityName(p int) string {
	if p < 0 || p >= len(Priorities) {
		return ""
	}
	return Priorities[p]
}

// Clone returns a deep copy so callers never share the comments slice with
// the store.
func (r *HelpRequest) Clone() *HelpRequest {
	if r == nil {
		return nil
	}
	c := *r
	c.Comments = append(make([]string, 0, len(r.Comments)), r.Comments...)
	return &c
}
