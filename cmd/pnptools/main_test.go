package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
	"github.com/MrSnakeDoc/pnptools/internal/transport"
)

const testCatalog = "CATEGORY,TITLE,CREATOR,DESCRIPTION,LINK,IMAGE\n" +
	"Utilities,Card Maker,Ann,Makes cards,https://cards.test/maker,\n" +
	"PnP Geeklists,Solo List,,,https://bgg.test/list/1,"

func setupEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resources.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	t.Setenv("PNP_CATALOG_FILE", path)
	t.Setenv("PNP_LOG_LEVEL", "error")
	t.Setenv("PNP_PRETTY_LOG", "false")
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestQueryCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "query", "--category", "pnp tools")
	require.NoError(t, err)
	assert.Contains(t, out, "Card Maker [PnP Tools]")
	assert.Contains(t, out, "  by Ann")
	assert.NotContains(t, out, "Solo List")
	assert.True(t, strings.HasSuffix(out, "1 resource shown\n"), out)

	out, err = run(t, "query", "--sort", "title-desc", "--json")
	require.NoError(t, err)
	var cards []domain.Card
	require.NoError(t, json.Unmarshal([]byte(out), &cards))
	require.Len(t, cards, 2)
	assert.Equal(t, "Solo List", cards[0].Title)
	assert.Equal(t, domain.NoDescriptionText, cards[0].Description)
}

func TestQueryCommand_MissingCatalog(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "query", "--catalog", filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, domain.ErrLoad)
}

func TestSubmitCommand(t *testing.T) {
	setupEnv(t)

	var got transport.Envelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/resources", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	out, err := run(t, "submit",
		"--base-url", srv.URL,
		"--category", "PnP Tools",
		"--title", " Box Maker ",
		"--description", "Folds boxes",
		"--link", "https://boxes.test",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Thanks!")
	assert.Equal(t, "Box Maker", got.Title)
	assert.Equal(t, transport.Source, got.Source)
	assert.NotEmpty(t, got.SubmittedAt)
}

func TestSubmitCommand_ServerRejects(t *testing.T) {
	setupEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Missing required fields: category, title, description, link."}`))
	}))
	defer srv.Close()

	_, err := run(t, "submit",
		"--base-url", srv.URL,
		"--category", "PnP Tools",
		"--title", "Box Maker",
		"--description", "Folds boxes",
		"--link", "https://boxes.test",
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, transport.ErrTransport)
	assert.Contains(t, err.Error(), "Missing required fields")
}

func TestCheckCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "check",
		"--category", "utilities",
		"--title", "New Tool",
		"--description", "d",
		"--link", "https://new.test",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "OK")

	_, err = run(t, "check",
		"--category", "pnp tools",
		"--title", "card maker",
		"--description", "d",
		"--link", "https://other.test",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "same title and category")

	_, err = run(t, "check",
		"--category", "utilities",
		"--title", "x",
		"--description", "d",
		"--link", "https://x.test",
		"--image", "https://drive.google.com/file.png",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "direct public image URL")

	// an unreadable catalog skips the duplicate check
	out, err = run(t, "check",
		"--catalog", filepath.Join(t.TempDir(), "missing.csv"),
		"--category", "pnp tools",
		"--title", "card maker",
		"--description", "d",
		"--link", "https://cards.test/maker",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "OK")
}
