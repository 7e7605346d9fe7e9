package colour

// Minimum contrast ratios for text drawn over a swatch.
const (
	MinContrastTitleText = 3.0
	MinContrastBodyText  = 4.5
)

// TextColours holds the text colours chosen for a background.
// The Exact flags report whether the colour meets the requested ratio; they
// are false only when neither white nor black can reach it.
type TextColours struct {
	Body       uint32 `json:"body"`
	Title      uint32 `json:"title"`
	BodyExact  bool   `json:"bodyExact"`
	TitleExact bool   `json:"titleExact"`
}

// candidate is the outcome of an alpha search for one base colour.
type candidate struct {
	base  uint32
	alpha uint8
	ok    bool
}

func (c candidate) colour() uint32 {
	return SetAlpha(c.base, c.alpha)
}

func search(base, bg uint32, minRatio float64) candidate {
	// bg is forced opaque by the caller, so the error path is unreachable.
	alpha, ok, _ := MinimumAlpha(base, bg, minRatio)
	return candidate{base: base, alpha: alpha, ok: ok}
}

// SolveTextColours picks white or black text colours, with the lowest alpha
// that meets the body and title contrast ratios against bg.
// White is preferred when it satisfies both ratios, then black. Otherwise each
// ratio is solved independently, so body and title may use different bases.
// The alpha of bg is ignored; the background is treated as opaque.
func SolveTextColours(bg uint32, minBody, minTitle float64) TextColours {
	bg = Opaque(bg)

	// Check white first, as most swatches are dark.
	lightBody := search(White, bg, minBody)
	lightTitle := search(White, bg, minTitle)
	if lightBody.ok && lightTitle.ok {
		return TextColours{
			Body:       lightBody.colour(),
			Title:      lightTitle.colour(),
			BodyExact:  true,
			TitleExact: true,
		}
	}

	darkBody := search(Black, bg, minBody)
	darkTitle := search(Black, bg, minTitle)
	if darkBody.ok && darkTitle.ok {
		return TextColours{
			Body:       darkBody.colour(),
			Title:      darkTitle.colour(),
			BodyExact:  true,
			TitleExact: true,
		}
	}

	body, bodyExact := pick(lightBody, darkBody, bg)
	title, titleExact := pick(lightTitle, darkTitle, bg)
	return TextColours{
		Body:       body,
		Title:      title,
		BodyExact:  bodyExact,
		TitleExact: titleExact,
	}
}

// pick returns whichever of light or dark passed. When neither did, the
// opaque base with the higher contrast is returned and exact is false.
func pick(light, dark candidate, bg uint32) (uint32, bool) {
	switch {
	case light.ok:
		return light.colour(), true
	case dark.ok:
		return dark.colour(), true
	case contrast(White, bg) >= contrast(Black, bg):
		return White, false
	default:
		return Black, false
	}
}
