// Package firmware carries the artifacts the board's flashing utility consumes,
// most importantly the partition table. The table's CSV layout is defined by the
// flashing tool, not by us - we only embed it and sanity-check its shape before
// handing it over.
package firmware

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
)

//go:embed partitions.csv
var partitionTable []byte

// PartitionTableName is the file name the flashing utility expects.
const PartitionTableName = "partitions.csv"

// PartitionTable returns the embedded partition table bytes.
func PartitionTable() []byte {
	return partitionTable
}

// ValidateTable runs a shallow shape check over a partition table in the
// flashing tool's CSV layout: comment/blank lines are skipped, every row needs
// a name, type, subtype, offset, size (and optionally flags), and the offset
// must be empty or a number. Anything deeper, like alignment or overlap,
// is the flashing tool's business.
func ValidateTable(data []byte) error {
	lines := strings.Split(string(data), "\n")

	rows := 0
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		for j := range fields {
			fields[j] = strings.TrimSpace(fields[j])
		}

		// a trailing comma (empty flags column) is how the tool ships its own tables
		if len(fields) < 5 || len(fields) > 6 {
			return fmt.Errorf("partition table line %d: expected 5-6 fields, got %d", i+1, len(fields))
		}

		if fields[0] == "" {
			return fmt.Errorf("partition table line %d: empty partition name", i+1)
		}

		if fields[1] == "" || fields[2] == "" {
			return fmt.Errorf("partition table line %d: empty type or subtype", i+1)
		}

		// offset may be left blank for the tool to auto-place
		if fields[3] != "" {
			if _, err := parseTableNumber(fields[3]); err != nil {
				return fmt.Errorf("partition table line %d: bad offset %q: %w", i+1, fields[3], err)
			}
		}

		if fields[4] == "" {
			return fmt.Errorf("partition table line %d: empty size", i+1)
		}
		if _, err := parseTableNumber(fields[4]); err != nil {
			return fmt.Errorf("partition table line %d: bad size %q: %w", i+1, fields[4], err)
		}

		rows++
	}

	if rows == 0 {
		return fmt.Errorf("partition table contains no entries")
	}

	return nil
}

// parseTableNumber accepts the numeric forms the tool's layout allows:
// decimal, 0x-prefixed hex, and K/M-suffixed sizes.
func parseTableNumber(s string) (uint64, error) {
	multiplier := uint64(1)

	switch {
	case strings.HasSuffix(s, "K"), strings.HasSuffix(s, "k"):
		multiplier = 1024
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "M"), strings.HasSuffix(s, "m"):
		multiplier = 1024 * 1024
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, err
	}

	return n * multiplier, nil
}
