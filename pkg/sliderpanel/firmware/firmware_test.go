package firmware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddedTableIsValid(t *testing.T) {
	data := PartitionTable()
	assert.NotEmpty(t, data)
	assert.NoError(t, ValidateTable(data))
}

func TestEmbeddedTableHasFactoryApp(t *testing.T) {

	// the flashing utility refuses images without a bootable app entry,
	// so the table we ship must carry one
	assert.Contains(t, string(PartitionTable()), "factory")
}

func TestValidateTable(t *testing.T) {
	testCases := map[string]struct {
		table   string
		wantErr bool
	}{
		"minimal valid row": {
			table: "nvs, data, nvs, 0x9000, 0x6000,\n",
		},
		"comments and blanks skipped": {
			table: "# Name, Type, SubType, Offset, Size, Flags\n\nfactory, app, factory, 0x10000, 4M,\n",
		},
		"auto-placed offset": {
			table: "storage, data, spiffs, , 1M,\n",
		},
		"size with suffix": {
			table: "factory, app, factory, 0x10000, 2M,\n",
		},
		"empty table": {
			table:   "# just a header\n",
			wantErr: true,
		},
		"missing name": {
			table:   ", data, nvs, 0x9000, 0x6000,\n",
			wantErr: true,
		},
		"too few fields": {
			table:   "nvs, data, nvs\n",
			wantErr: true,
		},
		"bad offset": {
			table:   "nvs, data, nvs, lots, 0x6000,\n",
			wantErr: true,
		},
		"bad size": {
			table:   "nvs, data, nvs, 0x9000, huge,\n",
			wantErr: true,
		},
		"missing size": {
			table:   "nvs, data, nvs, 0x9000, ,\n",
			wantErr: true,
		},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			err := ValidateTable([]byte(testCase.table))

			if testCase.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseTableNumber(t *testing.T) {
	testCases := map[string]struct {
		input string
		want  uint64
	}{
		"decimal":    {input: "4096", want: 4096},
		"hex":        {input: "0x9000", want: 0x9000},
		"kilobytes":  {input: "16K", want: 16 * 1024},
		"megabytes":  {input: "4M", want: 4 * 1024 * 1024},
		"lower case": {input: "2m", want: 2 * 1024 * 1024},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			got, err := parseTableNumber(testCase.input)
			assert.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}
