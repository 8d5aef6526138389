package layout

import (
	"fmt"
	"strconv"
	"strings"

	"trolley/navigator/internal/domain"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// Region is a named rectangular area extracted from a store's layout SVG.
type Region struct {
	ElementID string
	Center    domain.Coordinate
}

// ParseLayoutSVG extracts every rect carrying an id from the store map and
// returns the geometric center of each, keyed by element id. Centers fill
// in coordinates the layout file or provider document omits.
func ParseLayoutSVG(svg string) (map[string]Region, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout SVG: %w", err)
	}

	regions := make(map[string]Region)

	doc.Find("rect[id]").Each(func(i int, s *goquery.Selection) {
		id, _ := s.Attr("id")

		x, err := parseAttrFloat(s, "x")
		if err != nil {
			log.Warnf("Skipping region %s: %v", id, err)
			return
		}
		y, err := parseAttrFloat(s, "y")
		if err != nil {
			log.Warnf("Skipping region %s: %v", id, err)
			return
		}
		width, err := parseAttrFloat(s, "width")
		if err != nil {
			log.Warnf("Skipping region %s: %v", id, err)
			return
		}
		height, err := parseAttrFloat(s, "height")
		if err != nil {
			log.Warnf("Skipping region %s: %v", id, err)
			return
		}

		regions[id] = Region{
			ElementID: id,
			Center: domain.Coordinate{
				X: x + width/2,
				Y: y + height/2,
			},
		}
	})

	if len(regions) == 0 {
		return nil, fmt.Errorf("layout SVG contains no identified regions")
	}

	return regions, nil
}

func parseAttrFloat(s *goquery.Selection, name string) (float64, error) {
	raw, ok := s.Attr(name)
	if !ok {
		return 0, fmt.Errorf("missing %s attribute", name)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s attribute %q: %w", name, raw, err)
	}
	return value, nil
}
