package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK      ItemStatus = "ok"
	StatusDropped ItemStatus = "dropped"
)

// Result is the outcome of processing one candidate in an ingestion batch.
type Result struct {
	id     int64
	status ItemStatus
	err    error
}

// NewOK creates a successful batch result.
func NewOK(id int64) Result { return Result{id: id, status: StatusOK} }

// NewDropped creates a result for a candidate omitted from the output.
func NewDropped(id int64, err error) Result {
	return Result{id: id, status: StatusDropped, err: err}
}

// ID returns the candidate identifier (0 when the source record had none).
func (r Result) ID() int64 { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the drop reason, if any.
func (r Result) Err() error { return r.err }
