package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Documents written by earlier versions of the store use Date.now() style
// numeric ids and may hold timestamps as epoch milliseconds. The decoders
// below accept those shapes next to the current string forms.

var jsonNull = []byte("null")

// looseID decodes a string or a JSON number into its string form.
type looseID string

func (id *looseID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = looseID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = looseID(n.String())
	return nil
}

// looseTime decodes an RFC 3339 string, an empty string or epoch
// milliseconds.
type looseTime time.Time

func (t *looseTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) || bytes.Equal(data, []byte(`""`)) {
		*t = looseTime{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var tm time.Time
		if err := tm.UnmarshalJSON(data); err != nil {
			return err
		}
		*t = looseTime(tm)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	ms, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil {
			return fmt.Errorf("timestamp: %w", ferr)
		}
		ms = int64(f)
	}
	*t = looseTime(time.UnixMilli(ms).UTC())
	return nil
}

func (t *looseTime) ptr() *time.Time {
	if t == nil {
		return nil
	}
	tm := time.Time(*t)
	return &tm
}

func (r *Review) UnmarshalJSON(data []byte) error {
	type plain Review
	aux := struct {
		*plain
		ID        looseID   `json:"id"`
		UserID    looseID   `json:"userId"`
		CreatedAt looseTime `json:"createdAt"`
		UpdatedAt looseTime `json:"updatedAt"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.ID, r.UserID = string(aux.ID), string(aux.UserID)
	r.CreatedAt, r.UpdatedAt = time.Time(aux.CreatedAt), time.Time(aux.UpdatedAt)
	return nil
}

func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	aux := struct {
		*plain
		ID        looseID   `json:"id"`
		CreatedAt looseTime `json:"createdAt"`
		UpdatedAt looseTime `json:"updatedAt"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.ID = string(aux.ID)
	p.CreatedAt, p.UpdatedAt = time.Time(aux.CreatedAt), time.Time(aux.UpdatedAt)
	return nil
}

func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	aux := struct {
		*plain
		ID        looseID   `json:"id"`
		CreatedAt looseTime `json:"createdAt"`
		UpdatedAt looseTime `json:"updatedAt"`
	}{plain: (*plain)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.ID = string(aux.ID)
	u.CreatedAt, u.UpdatedAt = time.Time(aux.CreatedAt), time.Time(aux.UpdatedAt)
	return nil
}

func (it *OrderItem) UnmarshalJSON(data []byte) error {
	type plain OrderItem
	aux := struct {
		*plain
		Product looseID `json:"product"`
	}{plain: (*plain)(it)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	it.Product = string(aux.Product)
	return nil
}

func (o *Order) UnmarshalJSON(data []byte) error {
	type plain Order
	aux := struct {
		*plain
		ID          looseID    `json:"id"`
		UserID      looseID    `json:"userId"`
		PaidAt      *looseTime `json:"paidAt"`
		DeliveredAt *looseTime `json:"deliveredAt"`
		CreatedAt   looseTime  `json:"createdAt"`
		UpdatedAt   looseTime  `json:"updatedAt"`
	}{plain: (*plain)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	o.ID, o.UserID = string(aux.ID), string(aux.UserID)
	o.PaidAt, o.DeliveredAt = aux.PaidAt.ptr(), aux.DeliveredAt.ptr()
	o.CreatedAt, o.UpdatedAt = time.Time(aux.CreatedAt), time.Time(aux.UpdatedAt)
	return nil
}

func (it *CartItem) UnmarshalJSON(data []byte) error {
	type plain CartItem
	aux := struct {
		*plain
		Product looseID `json:"product"`
	}{plain: (*plain)(it)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	it.Product = string(aux.Product)
	return nil
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	type plain Cart
	aux := struct {
		*plain
		ID        looseID   `json:"id"`
		UserID    looseID   `json:"userId"`
		UpdatedAt looseTime `json:"updatedAt"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.ID, c.UserID = string(aux.ID), string(aux.UserID)
	c.UpdatedAt = time.Time(aux.UpdatedAt)
	return nil
}
