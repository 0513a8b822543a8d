package catalog

import (
	"fmt"
	"os"
	"sync"

	"github.com/MrSnakeDoc/pnptools/internal/csvcodec"
	"github.com/MrSnakeDoc/pnptools/internal/domain"
	"github.com/MrSnakeDoc/pnptools/internal/sources/csvsource"
)

// Appender adds records to the end of the catalog file. One process is
// assumed to own the file; the mutex only orders writers inside it.
type Appender struct {
	mu   sync.Mutex
	path string
}

func NewAppender(path string) *Appender {
	return &Appender{path: path}
}

func (a *Appender) Path() string {
	return a.path
}

// Append writes "\n" followed by the serialized record in a single write.
func (a *Appender) Append(r domain.Resource) error {
	line := "\n" + csvcodec.SerializeLine(csvsource.ToRow(r))

	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open catalog for append: %w", err)
	}

	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("append to catalog: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close catalog: %w", err)
	}
	return nil
}
