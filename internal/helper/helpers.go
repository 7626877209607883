package helper

import (
	"fmt"
	"net/http"
	"sync"
)

type errorReporter interface {
	ReportServerError(r *http.Request, err error)
}

type HelperRepository struct {
	baseUrl     *string
	botUsername string
	WG          *sync.WaitGroup
	errHandler  errorReporter
}

func New(baseUrl *string, botUsername string, wg *sync.WaitGroup, errHandler errorReporter) *HelperRepository {
	return &HelperRepository{
		baseUrl:     baseUrl,
		botUsername: botUsername,
		WG:          wg,
		errHandler:  errHandler,
	}
}

// ReferralLink is the deep link an account shares to earn the referral bonus.
func (h *HelperRepository) ReferralLink(referralCode string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", h.botUsername, referralCode)
}

func (h *HelperRepository) BackgroundTask(r *http.Request, fn func() error) {
	h.WG.Add(1)

	go func() {
		defer h.WG.Done()

		defer func() {
			err := recover()
			if err != nil {
				h.errHandler.ReportServerError(nil, fmt.Errorf("%s", err))
			}
		}()

		err := fn()
		if err != nil {
			h.errHandler.ReportServerError(r, err)
		}
	}()
}
