// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package repo

import (
	"go.uber.org/zap"
)

var log = zap.NewNop().Sugar()

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger *zap.SugaredLogger) {
	log = logger
}
