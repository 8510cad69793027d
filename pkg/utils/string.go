package utils

import (
	"fmt"
	"time"
)

// Receipt gateway'e gönderilen makbuz numarası, ör. vedic_pass_12_1718000000000
func Receipt(prefix string, parts ...any) string {
	s := prefix
	for _, p := range parts {
		s += fmt.Sprintf("_%v", p)
	}
	return fmt.Sprintf("%s_%d", s, time.Now().UnixMilli())
}
