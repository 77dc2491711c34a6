package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// SelectorURL is the top-level area selector page.
func SelectorURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/select/prefecture00.php?prec_no=&block_no=&year=&month=&day=&view="
}

// PrefectureURL is the station selector page of one area.
func PrefectureURL(baseURL, precNo string) string {
	q := url.Values{}
	q.Set("prec_no", precNo)
	return strings.TrimRight(baseURL, "/") + "/select/prefecture.php?" + q.Encode() + "&block_no=&year=&month=&day=&view="
}

// ObservationURL builds the page holding one station's table for one fetch unit.
func ObservationURL(baseURL string, st StationRecord, c Cadence, unit time.Time) (string, error) {
	class, err := st.Class()
	if err != nil {
		return "", err
	}
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown cadence %d", ErrInvalidInput, int(c))
	}
	u := c.Unit(unit)
	day, view := fmt.Sprintf("%02d", u.Day()), ""
	switch c {
	case TenMinute:
		view = "p1"
	case Daily:
		day = ""
	}
	return fmt.Sprintf("%s/view/%s_%s.php?prec_no=%s&block_no=%s&year=%04d&month=%02d&day=%s&view=%s",
		strings.TrimRight(baseURL, "/"), c, class.PageSuffix(),
		url.QueryEscape(st.PrecNo), url.QueryEscape(st.BlockNo),
		u.Year(), int(u.Month()), day, view,
	), nil
}
