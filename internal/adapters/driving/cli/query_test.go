package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atheneum-labs/passage/internal/core/domain"
)

func TestQueryCmd_Use(t *testing.T) {
	assert.Equal(t, "query [text]", queryCmd.Use)
}

func TestQueryCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"query"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestQueryCmd_HasLimitFlag(t *testing.T) {
	flag := queryCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)
}

func TestQueryCmd_PrintsResults(t *testing.T) {
	cleanup := setupTestServices(&fakeEngine{results: sampleResults()})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "what transfers electrons?"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Results:")
	assert.Contains(t, buf.String(), "notes, page 1 (0.88)")
	assert.Contains(t, buf.String(), "Redox reactions transfer electrons.")
}

func TestQueryCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices(&fakeEngine{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "anything"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No relevant passages found.")
}

func TestQueryCmd_UsesConfiguredRetrievalDefaults(t *testing.T) {
	engine := &fakeEngine{}
	cleanup := setupTestServices(engine)
	defer cleanup()

	retrievalSettings = domain.RetrievalSettings{TopK: 9, MinSimilarity: 0.6}

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"query", "anything"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, 9, engine.lastOpts.TopK)
	assert.True(t, engine.lastOpts.HasMinSimilarity)
	assert.Equal(t, 0.6, engine.lastOpts.MinSimilarity)
}

func TestQueryCmd_FlagsOverrideConfiguredDefaults(t *testing.T) {
	engine := &fakeEngine{}
	cleanup := setupTestServices(engine)
	defer func() {
		cleanup()
		queryLimit = domain.DefaultTopK
		queryMinSimilarity = -1
		queryCmd.Flags().Lookup("limit").Changed = false
		queryCmd.Flags().Lookup("min-similarity").Changed = false
	}()

	retrievalSettings = domain.RetrievalSettings{TopK: 9, MinSimilarity: 0.6}

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"query", "--limit", "2", "--min-similarity", "0.1", "anything"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, 2, engine.lastOpts.TopK)
	assert.True(t, engine.lastOpts.HasMinSimilarity)
	assert.Equal(t, 0.1, engine.lastOpts.MinSimilarity)
}

func TestQueryCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices(&fakeEngine{results: sampleResults()})
	defer func() {
		cleanup()
		queryJSON = false
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "--json", "what transfers electrons?"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"passage_id": "notes:p1:c0"`)
	assert.Contains(t, buf.String(), `"similarity": 0.88`)
}
