// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides fault-tolerant string conversions for query strings
and shell arguments.

Do not use this package where a malformed value must be told apart from a
default; parse with [strconv] and report the error instead.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD converts str to an int, returning def if it is empty or malformed.
func ToIntD(str string, def int) int {
	str = strings.TrimSpace(str)
	if str == "" {
		return def
	}
	if v, err := strconv.Atoi(str); err == nil {
		return v
	}
	return def
}

// ToBool reports whether s reads as true: "yes", "y" or "public" in any case,
// or a true value accepted by [strconv.ParseBool] ("1", "t", "true", "TRUE").
// Anything else, "no" included, is false.
func ToBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "public":
		return true
	}
	v, _ := strconv.ParseBool(strings.TrimSpace(s))
	return v
}
