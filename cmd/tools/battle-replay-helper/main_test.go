package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsu-arena/internal/domain/battle"
	"tsu-arena/internal/domain/battle/battletest"
)

func exampleInput(t *testing.T) *bytes.Reader {
	t.Helper()
	raw, err := battle.Encode(battletest.Example())
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func TestRunTickByTick(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-file", "-"}, exampleInput(t), &out))

	text := out.String()
	assert.Contains(t, text, "CRITICAL 30 [100 | 70]")
	assert.Contains(t, text, "#1 opponent -> challenger: dodged")
	assert.Contains(t, text, "[100 | 0]")
	assert.Contains(t, text, "outcome=challenger_wins")
	assert.Contains(t, text, "dealt 100")
}

func TestRunSkip(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-file", "-", "-skip"}, exampleInput(t), &out))

	text := out.String()
	assert.NotContains(t, text, "#0")
	assert.Contains(t, text, "cursor=3/3")
}

func TestRunJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-file", "-", "-json"}, exampleInput(t), &out))

	var body struct {
		View struct {
			Phase   string `json:"phase"`
			Outcome string `json:"outcome"`
		} `json:"view"`
		Report struct {
			Challenger struct {
				DamageDealt int64 `json:"damage_dealt"`
			} `json:"challenger"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	assert.Equal(t, "result", body.View.Phase)
	assert.Equal(t, "challenger_wins", body.View.Outcome)
	assert.Equal(t, int64(100), body.Report.Challenger.DamageDealt)
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(nil, strings.NewReader(""), &out))
	assert.Error(t, run([]string{"-file", "-", "-battle-id", "b"}, strings.NewReader(""), &out))
	assert.Error(t, run([]string{"-file", "-"}, strings.NewReader("{bad"), &out))
}
