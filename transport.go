package mesh

import (
	"context"
	"io"
	"os"
)

// Transport is the byte stream a WireServer serves on.
type Transport interface {
	io.ReadWriteCloser
	// Context returns the context for this transport
	Context() context.Context
}

// StdioTransport implements Transport over stdin/stdout.
type StdioTransport struct {
	ctx context.Context
	in  io.Reader
	out io.Writer
}

// NewStdioTransport creates a new stdio transport
func NewStdioTransport(ctx context.Context) *StdioTransport {
	return &StdioTransport{
		ctx: ctx,
		in:  os.Stdin,
		out: os.Stdout,
	}
}

func (t *StdioTransport) Read(p []byte) (n int, err error)  { return t.in.Read(p) }
func (t *StdioTransport) Write(p []byte) (n int, err error) { return t.out.Write(p) }
func (t *StdioTransport) Close() error                      { return nil }
func (t *StdioTransport) Context() context.Context          { return t.ctx }

// JoinReadWriter glues a separate reader and writer into a single
// ReadWriteCloser, closing whichever halves support closing.
func JoinReadWriter(r io.Reader, w io.Writer) io.ReadWriteCloser {
	return rwc{r: r, w: w}
}

type rwc struct {
	r io.Reader
	w io.Writer
}

func (c rwc) Read(p []byte) (int, error)  { return c.r.Read(p) }
func (c rwc) Write(p []byte) (int, error) { return c.w.Write(p) }

func (c rwc) Close() error {
	var err error
	if wc, ok := c.w.(io.Closer); ok {
		err = wc.Close()
	}
	if rc, ok := c.r.(io.Closer); ok {
		if cerr := rc.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
