package export

// FlushFunc receives each full batch of rows, in submission order.
type FlushFunc func(batch [][]string) error

// BatchWriter buffers rows and hands them to a FlushFunc in batches.
// It is not safe for concurrent use; one export owns one writer.
type BatchWriter struct {
	buf    [][]string
	cap    int
	flush  FlushFunc
	closed bool

	// OnFlush, if set, is called with the size of every flushed batch.
	OnFlush func(n int)

	// err is the first flush error; once set, Submit and Close return it.
	err error
}

// NewBatchWriter creates a BatchWriter flushing every bufferSize rows.
func NewBatchWriter(bufferSize int, flush FlushFunc) *BatchWriter {
	if bufferSize <= 0 {
		bufferSize = 10
	}
	return &BatchWriter{
		buf:   make([][]string, 0, bufferSize),
		cap:   bufferSize,
		flush: flush,
	}
}

// Submit enqueues a row.
func (bw *BatchWriter) Submit(row []string) error {
	if bw.closed {
		return ErrBatchWriterClosed
	}
	if bw.err != nil {
		return bw.err
	}
	bw.buf = append(bw.buf, row)
	if len(bw.buf) >= bw.cap {
		return bw.flushBuffered()
	}
	return nil
}

func (bw *BatchWriter) flushBuffered() error {
	if len(bw.buf) == 0 {
		return nil
	}
	batch := bw.buf
	bw.buf = make([][]string, 0, bw.cap)
	if err := bw.flush(batch); err != nil {
		bw.err = &BatchWriterError{msg: "flush batch: " + err.Error(), err: err}
		return bw.err
	}
	if bw.OnFlush != nil {
		bw.OnFlush(len(batch))
	}
	return nil
}

// Close flushes the remaining rows and stops accepting submissions.
func (bw *BatchWriter) Close() error {
	if bw.closed {
		return ErrBatchWriterClosed
	}
	bw.closed = true
	if bw.err != nil {
		return bw.err
	}
	return bw.flushBuffered()
}

var ErrBatchWriterClosed = &BatchWriterError{msg: "batch writer closed"}

type BatchWriterError struct {
	msg string
	err error
}

func (e *BatchWriterError) Error() string { return e.msg }

func (e *BatchWriterError) Unwrap() error { return e.err }
