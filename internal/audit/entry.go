package audit

// TimestampFormat is the layout used in audit entry timestamps.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Destination is the account an invocation ran (or would have run) as.
type Destination struct {
	Name string `json:"name"`
	UID  int    `json:"uid"`
}

// AuditEntry is one line in the hash-chained JSONL audit log: one
// invocation, allowed or refused.
// All fields are structs (no map[string]any) to guarantee deterministic
// json.Marshal field order for reproducible hashing.
type AuditEntry struct {
	Timestamp   string       `json:"ts"`
	InvokerUID  int          `json:"invoker_uid"`
	Target      string       `json:"target"`
	Argc        int          `json:"argc"`
	Destination *Destination `json:"destination,omitempty"`
	Decision    string       `json:"decision"`
	Kind        string       `json:"kind,omitempty"`
	Reason      string       `json:"reason,omitempty"`
	PolicyHash  string       `json:"policy_hash,omitempty"`
	PrevHash    string       `json:"prev_hash"`
}
