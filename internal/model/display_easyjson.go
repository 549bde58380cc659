package model

import (
	"github.com/mailru/easyjson/jwriter"
)

// MarshalEasyJSON writes the row the way the price table columns are keyed.
func (v TableRow) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"LastUpdated":`)
	w.String(v.LastUpdated)
	w.RawString(`,"Price":`)
	if v.Price == nil {
		w.RawString("null")
	} else {
		w.Float64(*v.Price)
	}
	w.RawByte('}')
}

// MarshalJSON supports json.Marshaler interface
func (v TableRow) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	v.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}

// MarshalEasyJSON writes the rows as a JSON array, never null.
func (v TableRows) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawByte('[')
	for i, row := range v {
		if i > 0 {
			w.RawByte(',')
		}
		row.MarshalEasyJSON(w)
	}
	w.RawByte(']')
}

// MarshalJSON supports json.Marshaler interface
func (v TableRows) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	v.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}
