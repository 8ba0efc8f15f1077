package models

// PromoDataset is the decoded promotion payload. Popup is a render-time flag
// and never travels with the payload.
type PromoDataset struct {
	Promo []PromoEntry `json:"promo"`
	Popup bool         `json:"-"`
}

func (d *PromoDataset) IsEmpty() bool {
	return d == nil || len(d.Promo) == 0
}

// Pinned returns the first pinned entry.
func (d *PromoDataset) Pinned() (PromoEntry, bool) {
	if d == nil {
		return PromoEntry{}, false
	}
	for _, e := range d.Promo {
		if e.Pinned {
			return e, true
		}
	}
	return PromoEntry{}, false
}
