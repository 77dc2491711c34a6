package jma

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/amedas-etl/internal/domain"
)

// Area is one entry of the top-level selector page.
type Area struct {
	Name   string
	PrecNo string
}

// StationAnchor is one station entry of a prefecture selector page.
// Coordinates come from the anchor's viewPoint(...) handler when present.
type StationAnchor struct {
	Name      string
	BlockNo   string
	Lat       float64
	Lon       float64
	HasCoords bool
}

// viewPointRe captures the argument list of the onmouseover handler, e.g.
// viewPoint('s','47662','東京','トウキョウ','35','41.3','139','45.0',...).
var viewPointRe = regexp.MustCompile(`viewPoint\(([^)]*)\)`)

func newDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: read html: %v", domain.ErrParse, err)
	}
	return doc, nil
}

// ParseAreas extracts (area name, prec_no) pairs from the selector page.
// Every <area> must carry alt and an href with prec_no. Duplicate prec_no
// entries keep their first occurrence.
func ParseAreas(body []byte) ([]Area, error) {
	doc, err := newDocument(body)
	if err != nil {
		return nil, err
	}

	var (
		areas    []Area
		seen     = make(map[string]bool)
		parseErr error
	)
	doc.Find("area").EachWithBreak(func(i int, s *goquery.Selection) bool {
		name, ok := s.Attr("alt")
		if !ok || strings.TrimSpace(name) == "" {
			parseErr = fmt.Errorf("%w: area %d has no alt", domain.ErrParse, i)
			return false
		}
		href, ok := s.Attr("href")
		if !ok {
			parseErr = fmt.Errorf("%w: area %q has no href", domain.ErrParse, name)
			return false
		}
		precNo := queryParam(href, "prec_no")
		if precNo == "" {
			parseErr = fmt.Errorf("%w: area %q href %q has no prec_no", domain.ErrParse, name, href)
			return false
		}
		if !seen[precNo] {
			seen[precNo] = true
			areas = append(areas, Area{Name: strings.TrimSpace(name), PrecNo: precNo})
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(areas) == 0 {
		return nil, fmt.Errorf("%w: selector page has no areas", domain.ErrParse)
	}
	return areas, nil
}

// ParseStationAnchors extracts the station anchors of a prefecture page.
// Anchors without a block_no (links to the whole prefecture) are skipped and
// reported by count so the caller can log them.
func ParseStationAnchors(body []byte) (anchors []StationAnchor, skipped int, err error) {
	doc, err := newDocument(body)
	if err != nil {
		return nil, 0, err
	}

	var parseErr error
	doc.Find("area").EachWithBreak(func(i int, s *goquery.Selection) bool {
		name, ok := s.Attr("alt")
		if !ok || strings.TrimSpace(name) == "" {
			parseErr = fmt.Errorf("%w: station area %d has no alt", domain.ErrParse, i)
			return false
		}
		href, ok := s.Attr("href")
		if !ok {
			parseErr = fmt.Errorf("%w: station %q has no href", domain.ErrParse, name)
			return false
		}
		blockNo := queryParam(href, "block_no")
		if blockNo == "" {
			skipped++
			return true
		}
		a := StationAnchor{Name: strings.TrimSpace(name), BlockNo: blockNo}
		if handler, ok := s.Attr("onmouseover"); ok {
			a.Lat, a.Lon, a.HasCoords = parseViewPoint(handler)
		}
		anchors = append(anchors, a)
		return true
	})
	if parseErr != nil {
		return nil, 0, parseErr
	}
	return anchors, skipped, nil
}

// parseViewPoint reads the degree/minute pairs at argument positions 4-7.
func parseViewPoint(handler string) (lat, lon float64, ok bool) {
	m := viewPointRe.FindStringSubmatch(handler)
	if m == nil {
		return 0, 0, false
	}
	args := strings.Split(m[1], ",")
	if len(args) < 8 {
		return 0, 0, false
	}
	nums := make([]float64, 4)
	for i := range nums {
		f, err := strconv.ParseFloat(strings.Trim(strings.TrimSpace(args[4+i]), `'"`), 64)
		if err != nil {
			return 0, 0, false
		}
		nums[i] = f
	}
	return domain.DegreesMinutes(nums[0], nums[1]), domain.DegreesMinutes(nums[2], nums[3]), true
}

func queryParam(href, key string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(u.Query().Get(key))
}

// ParseObservationTable extracts the raw cell text of an observation page.
// Header rows carry no <td> and are skipped; the leading time label of each
// data row is dropped.
func ParseObservationTable(body []byte) (domain.Frame, error) {
	doc, err := newDocument(body)
	if err != nil {
		return domain.Frame{}, err
	}

	table := doc.Find("table.data2_s").First()
	if table.Length() == 0 {
		return domain.Frame{}, fmt.Errorf("%w: observation table not found", domain.ErrParse)
	}

	var cells [][]string
	table.Find("tr.mtx").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.ChildrenFiltered("td")
		if tds.Length() == 0 {
			return
		}
		row := make([]string, 0, tds.Length()-1)
		tds.Slice(1, goquery.ToEnd).Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Text()))
		})
		cells = append(cells, row)
	})
	return domain.Frame{Cells: cells}, nil
}
