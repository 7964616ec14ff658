package civic

import (
	"fmt"
	"math/rand"
	"time"
)

// ReportIDProvider mints client-visible report identifiers of the form
// CL-<year>-<4 digits>.
type ReportIDProvider interface {
	NewReportID() string
}

type reportIDProvider struct {
	clock func() time.Time
	intn  func(n int) int
}

// NewReportIDProvider constructs the default provider. A nil clock uses
// time.Now; a nil intn uses a time-seeded source.
func NewReportIDProvider(clock func() time.Time, intn func(n int) int) ReportIDProvider {
	if clock == nil {
		clock = time.Now
	}
	if intn == nil {
		source := rand.New(rand.NewSource(clock().UnixNano()))
		intn = source.Intn
	}
	return &reportIDProvider{clock: clock, intn: intn}
}

func (p *reportIDProvider) NewReportID() string {
	year := p.clock().UTC().Year()
	return fmt.Sprintf("CL-%d-%04d", year, p.intn(9999)+1)
}
