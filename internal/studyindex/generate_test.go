package studyindex

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinops/trialpulse/internal/contracts"
)

func TestStudyName(t *testing.T) {
	tests := []struct {
		folder string
		want   string
	}{
		{"Study 1_CPID_Input Files - Anonymization", "STUDY 1"},
		{"Study  12_CPID", "STUDY 12"},
		{"study7 export", "STUDY7"},
		{"STUDY 3", "STUDY 3"},
		{"Oncology Batch", "Oncology Batch"},
	}

	for _, tt := range tests {
		t.Run(tt.folder, func(t *testing.T) {
			assert.Equal(t, tt.want, StudyName(tt.folder))
		})
	}
}

func TestStudyID(t *testing.T) {
	assert.Equal(t, "study-1_cpid_input-files-", StudyID("Study 1_CPID_Input Files "))
	assert.Equal(t, "study-2", StudyID("Study \t 2"))
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	mk := func(folder string, files ...string) {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, folder), 0o755))
		for _, f := range files {
			require.NoError(t, os.WriteFile(filepath.Join(dir, folder, f), nil, 0o644))
		}
	}

	mk("Study 10_CPID", "Study 10_EDC_Metrics.xlsx")
	mk("Study 2_CPID", "Study 2_EDC_Metrics.xlsx", ".~lock.xlsx", "notes.txt", "Study 2_GlobalCodingReport.csv", "Study 2_Visit Projection.xlsx")
	mk("Study 1_CPID")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "study-index.json"), nil, 0o644))

	out := filepath.Join(dir, "study-index.json")
	studies, err := WriteIndex(dir, out)
	require.NoError(t, err)
	require.Len(t, studies, 3)

	assert.Equal(t, []string{"STUDY 1", "STUDY 2", "STUDY 10"}, []string{studies[0].Name, studies[1].Name, studies[2].Name})
	assert.Equal(t, "study-2_cpid", studies[1].ID)
	assert.Equal(t, "Study 2_CPID", studies[1].Folder)
	assert.Equal(t, []string{"Study 2_EDC_Metrics.xlsx", "Study 2_Visit Projection.xlsx"}, studies[1].Files)
	assert.Empty(t, studies[0].Files)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var decoded []contracts.Study
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, studies, decoded)
}

func TestGenerate_MissingDir(t *testing.T) {
	_, err := Generate(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
