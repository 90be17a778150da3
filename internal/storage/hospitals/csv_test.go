package hospitals

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantLen int
		check   func(t *testing.T, input string)
	}{
		{
			name:    "canonical headers",
			input:   "HOSPITAL NAME,CITY,Address\nManipal Hospital,Bengaluru,Old Airport Road\nApollo Hospital,Chennai,Greams Road\n",
			wantLen: 2,
		},
		{
			name:    "headers in any case with extra columns",
			input:   "\ufeffhospital name,city,ADDRESS,Phone\nManipal Hospital,Bengaluru,Old Airport Road,080-1234\n",
			wantLen: 1,
			check: func(t *testing.T, input string) {
				records, err := Parse(strings.NewReader(input))
				require.NoError(t, err)
				assert.Equal(t, "Manipal Hospital", records[0].Name)
				assert.Equal(t, "080-1234", records[0].Fields["Phone"])
			},
		},
		{
			name:    "address column optional",
			input:   "HOSPITAL NAME,CITY\nManipal Hospital,Bengaluru\n",
			wantLen: 1,
		},
		{
			name:    "blank rows skipped",
			input:   "HOSPITAL NAME,CITY,Address\n,,\nManipal Hospital,Bengaluru,Road\n",
			wantLen: 1,
		},
		{
			name:    "missing city column",
			input:   "HOSPITAL NAME,Address\nManipal Hospital,Road\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "header only",
			input:   "HOSPITAL NAME,CITY,Address\n",
			wantErr: ErrEmptyDataset,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrEmptyDataset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.wantLen)
			if tt.check != nil {
				tt.check(t, tt.input)
			}
		})
	}
}

func TestWriteFileAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hospitals.csv")
	data := []byte("HOSPITAL NAME,CITY,Address\nManipal Hospital,Bengaluru,Old Airport Road\n")

	require.NoError(t, WriteFile(path, data))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, raw)

	records, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Bengaluru", records[0].City)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
