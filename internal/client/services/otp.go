package services

import (
	"sync"

	"github.com/dmitrijs2005/gophdrive/internal/common"
)

// OTPInput holds the code being typed on the verify screen.
type OTPInput struct {
	mu    sync.Mutex
	value string
}

// Set keeps only the digits of raw and accepts them when there are at most
// six; a longer input leaves the previous value in place.
func (o *OTPInput) Set(raw string) string {
	digits := common.DigitsOnly(raw)

	o.mu.Lock()
	defer o.mu.Unlock()
	if len(digits) <= common.OTPLength {
		o.value = digits
	}
	return o.value
}

func (o *OTPInput) Value() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// CanSubmit reports whether exactly six digits were entered.
func (o *OTPInput) CanSubmit() bool {
	return validOTP(o.Value())
}

func validOTP(code string) bool {
	return len(code) == common.OTPLength && common.DigitsOnly(code) == code
}
