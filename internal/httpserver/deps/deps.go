package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/pnptools/internal/catalog"
	"github.com/MrSnakeDoc/pnptools/internal/domain"
	"github.com/MrSnakeDoc/pnptools/internal/logger"
	"github.com/MrSnakeDoc/pnptools/internal/session"
	"github.com/MrSnakeDoc/pnptools/internal/submission"
)

// RecentLog stores accepted submissions for the admin listing.
type RecentLog interface {
	Push(ctx context.Context, rec submission.Record) error
	Recent(ctx context.Context, n int) ([]submission.Record, error)
}

// SharedDuplicates is the cross-instance duplicate index (Redis).
type SharedDuplicates interface {
	FindDuplicate(ctx context.Context, p submission.Payload) (*submission.DuplicateError, error)
	RememberResource(ctx context.Context, r domain.Resource) error
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed on admin endpoints
	AllowedCIDRS []string         // networks allowed on admin endpoints
	TrustProxy   bool             // true if running behind a trusted reverse proxy

	RootDir  string // static file root
	BasePath string // site path prefix applied to relative image paths

	Catalog    *catalog.Service
	Normalizer *domain.Normalizer
	Validator  *submission.Validator
	Sessions   *session.Manager
	Shared     SharedDuplicates // nil when Redis is disabled
	Recent     RecentLog

	StrictSubmissions bool
	MaxBodyBytes      int64
	SubmitRateBurst   int
	SubmitRatePerMin  int

	ReloadTrigger chan struct{} // manual catalog reload
}

// Now returns d.TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
