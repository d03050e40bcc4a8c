package api

import (
	"io"
	"math"
)

// progressReader wraps the upload payload and reports cumulative progress as
// a percentage after every read. Percentages are computed over the file
// content only; multipart framing bytes are not counted.
type progressReader struct {
	r      io.Reader
	total  int64
	sent   int64
	report func(pct int)
}

func newProgressReader(r io.Reader, total int64, report func(pct int)) *progressReader {
	return &progressReader{r: r, total: total, report: report}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		pct := int(math.Round(100 * float64(p.sent) / float64(p.total)))
		if pct > 100 {
			pct = 100
		}
		p.report(pct)
	}
	return n, err
}
