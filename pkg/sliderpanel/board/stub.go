//go:build !linux && !preview

package board

import (
	"errors"

	"go.uber.org/zap"
)

// Open fails on platforms without board support. Desktop development
// uses the preview build instead.
func Open(logger *zap.SugaredLogger, config Config) (Board, error) {
	return nil, errors.New("board hardware is only supported on linux (build with -tags preview for a desktop window)")
}
