package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/guestbites/guestbites/internal/guide"
	"github.com/guestbites/guestbites/internal/model"
)

func TestParsePicks(t *testing.T) {
	picks := parsePicks([]string{"Rubino's|Cash only", "  ", "Jeni's", "|note without name"})
	assert.Equal(t, []model.HostPick{
		{Name: "Rubino's", Note: "Cash only"},
		{Name: "Jeni's"},
	}, picks)
}

func TestWriteView_JSON(t *testing.T) {
	v := guide.Fallback("99999", nil, nil)

	var buf bytes.Buffer
	require.NoError(t, writeView(&buf, v, "json"))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "99999", out["zip"])
	assert.Equal(t, true, out["degraded"])
}

func TestWriteView_YAML(t *testing.T) {
	v := guide.Fallback("99999", []model.HostPick{{Name: "Rubino's"}}, nil)

	var buf bytes.Buffer
	require.NoError(t, writeView(&buf, v, "yaml"))

	var out map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "99999", out["zip"])
	assert.Contains(t, buf.String(), "hostPicks:")
}

func TestWriteView_UnknownFormat(t *testing.T) {
	assert.Error(t, writeView(&bytes.Buffer{}, guide.Fallback("99999", nil, nil), "xml"))
}
