package decode

import "github.com/qecworks/steanelab/internal/code"

// Aggregate folds decoded outcomes into the summary persisted per
// configuration.
type Aggregate struct {
	Shots    int `json:"shots"`
	Accepted int `json:"accepted"`
	Ones     int `json:"ones"`
}

// Add folds one outcome into the aggregate.
func (a *Aggregate) Add(o Outcome) {
	a.Shots++
	if !o.Accepted {
		return
	}
	a.Accepted++
	if o.Value == 1 {
		a.Ones++
	}
}

// P0 is the postselected probability of reading logical zero. Returns 0
// when no shots were accepted.
func (a Aggregate) P0() float64 {
	if a.Accepted == 0 {
		return 0
	}
	return float64(a.Accepted-a.Ones) / float64(a.Accepted)
}

// AcceptRate is the fraction of shots that survived postselection.
func (a Aggregate) AcceptRate() float64 {
	if a.Shots == 0 {
		return 0
	}
	return float64(a.Accepted) / float64(a.Shots)
}

// Shots decodes a batch of shot records into an aggregate. Errors abort:
// a malformed shot record is a programming error, not noise.
func (d *Decoder) Aggregate(shots [][]code.Bit) (Aggregate, error) {
	var agg Aggregate
	for _, bits := range shots {
		o, err := d.Shot(bits)
		if err != nil {
			return Aggregate{}, err
		}
		agg.Add(o)
	}
	return agg, nil
}
