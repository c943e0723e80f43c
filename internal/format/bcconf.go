package format

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// BlockConfig is one parsed bcconf line: a basic block's label paired
// with its multiplicity weight (e.g. an estimated loop trip count).
type BlockConfig struct {
	Key    string
	Weight int
}

// ParseBCConf reads a per-block configuration file: one "key = integer"
// line per basic block, blank lines skipped. Callers must check the
// returned slice's length against the number of basic blocks in the
// paired bitcode; ParseBCConf itself has no basic-block count to
// validate against.
func ParseBCConf(r io.Reader) ([]BlockConfig, error) {
	scanner := bufio.NewScanner(r)
	var out []BlockConfig
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: expected \"key = integer\", got %q", lineNo, line)
		}
		key := strings.TrimSpace(parts[0])
		weight, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid weight for %q: %w", lineNo, key, err)
		}
		out = append(out, BlockConfig{Key: key, Weight: weight})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
