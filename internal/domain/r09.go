package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// R09Type is the VDV 420 telegram standard a region transmits.
type R09Type int16

const (
	R09Type14 R09Type = 14
	R09Type16 R09Type = 16
	R09Type18 R09Type = 18
)

var r09Types = newEnumTable("R09 type", map[R09Type]string{
	R09Type14: "R09.14",
	R09Type16: "R09.16",
	R09Type18: "R09.18",
})

func (t R09Type) String() string {
	if name, ok := r09Types.name(t); ok {
		return name
	}
	return fmt.Sprintf("R09Type(%d)", int16(t))
}

func (t R09Type) MarshalJSON() ([]byte, error) {
	if !r09Types.valid(t) {
		return nil, fmt.Errorf("invalid R09 type %d", int16(t))
	}
	return encodeCode(t), nil
}

func (t *R09Type) UnmarshalJSON(data []byte) error {
	v, err := r09Types.decode(data)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// RequestStatus is the registration phase a telegram reports. Roughly 150m before the
// traffic light a vehicle pre-registers, registers at the light and de-registers when it
// leaves the stop.
type RequestStatus int16

const (
	PreRegistration RequestStatus = 0
	Registration    RequestStatus = 1
	DeRegistration  RequestStatus = 2
	DoorClosed      RequestStatus = 3
)

var requestStatuses = newEnumTable("request status", map[RequestStatus]string{
	PreRegistration: "pre_registration",
	Registration:    "registration",
	DeRegistration:  "de_registration",
	DoorClosed:      "door_close",
})

// RequestStatusFromInt returns false for codes outside the known set.
func RequestStatusFromInt(v int16) (RequestStatus, bool) {
	s := RequestStatus(v)
	return s, requestStatuses.valid(s)
}

func (s RequestStatus) String() string {
	if name, ok := requestStatuses.name(s); ok {
		return name
	}
	return fmt.Sprintf("RequestStatus(%d)", int16(s))
}

func (s RequestStatus) MarshalJSON() ([]byte, error) {
	if !requestStatuses.valid(s) {
		return nil, fmt.Errorf("invalid request status %d", int16(s))
	}
	return encodeCode(s), nil
}

func (s *RequestStatus) UnmarshalJSON(data []byte) error {
	v, err := requestStatuses.decode(data)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// R09Telegram is the smallest common denominator of R09.14, R09.16 and R09.18 telegrams.
type R09Telegram struct {
	TelegramType R09Type `json:"telegram_type"`
	// Delay of the vehicle, -7 to +7 minutes.
	Delay *int32 `json:"delay,omitempty"`
	// ReportingPoint decomposes into junction, direction and request status.
	ReportingPoint    uint32  `json:"reporting_point"`
	Junction          uint32  `json:"junction"`
	Direction         uint8   `json:"direction"`
	RequestStatus     uint8   `json:"request_status"`
	Priority          *uint8  `json:"priority,omitempty"`
	DirectionRequest  *uint8  `json:"direction_request,omitempty"`
	Line              *uint32 `json:"line,omitempty"`
	RunNumber         *uint32 `json:"run_number,omitempty"`
	DestinationNumber *uint32 `json:"destination_number,omitempty"`
	// TrainLength is the number of carriages, 0 for modern low-floor vehicles.
	TrainLength *uint8 `json:"train_length,omitempty"`
	// VehicleNumber exists from R09.16 on.
	VehicleNumber *uint32 `json:"vehicle_number,omitempty"`
	// Operator exists only in R09.18.
	Operator *uint8 `json:"operator,omitempty"`
}

func (t R09Telegram) String() string {
	return fmt.Sprintf("Type %s Line %s Run %s Destination %s - %d",
		t.TelegramType, optString(t.Line), optString(t.RunNumber), optString(t.DestinationNumber), t.RequestStatus)
}

func optString[T any](v *T) string {
	if v == nil {
		return "None"
	}
	return fmt.Sprint(*v)
}

// TelegramMetaInformation is attached by the receiving side.
type TelegramMetaInformation struct {
	Time    time.Time `json:"time"`
	Station uuid.UUID `json:"station"`
	Region  int64     `json:"region"`
}

type AuthenticationMeta struct {
	Station uuid.UUID `json:"station"`
	Token   string    `json:"token"`
}

// R09ReceiveTelegram is what stations submit: credentials and telegram side by side in one
// flat JSON object.
type R09ReceiveTelegram struct {
	AuthenticationMeta
	R09Telegram
}

// R09SaveTelegram is the r09_telegrams row.
type R09SaveTelegram struct {
	ID                *int64    `json:"id" db:"id"`
	Time              time.Time `json:"time" db:"time"`
	Station           uuid.UUID `json:"station" db:"station"`
	TelegramType      int64     `json:"telegram_type" db:"telegram_type"`
	Delay             *int32    `json:"delay" db:"delay"`
	ReportingPoint    int32     `json:"reporting_point" db:"reporting_point"`
	Junction          int32     `json:"junction" db:"junction"`
	Direction         int16     `json:"direction" db:"direction"`
	RequestStatus     int16     `json:"request_status" db:"request_status"`
	Priority          *int16    `json:"priority" db:"priority"`
	DirectionRequest  *int16    `json:"direction_request" db:"direction_request"`
	Line              *int32    `json:"line" db:"line"`
	RunNumber         *int32    `json:"run_number" db:"run_number"`
	DestinationNumber *int32    `json:"destination_number" db:"destination_number"`
	TrainLength       *int16    `json:"train_length" db:"train_length"`
	VehicleNumber     *int32    `json:"vehicle_number" db:"vehicle_number"`
	Operator          *int16    `json:"operator" db:"operator"`
	Region            int64     `json:"region" db:"region"`
}

// NewR09SaveTelegram builds the database row for a received telegram.
func NewR09SaveTelegram(t R09Telegram, meta TelegramMetaInformation) R09SaveTelegram {
	return R09SaveTelegram{
		Time:              meta.Time,
		Station:           meta.Station,
		TelegramType:      int64(t.TelegramType),
		Delay:             t.Delay,
		ReportingPoint:    int32(t.ReportingPoint),
		Junction:          int32(t.Junction),
		Direction:         int16(t.Direction),
		RequestStatus:     int16(t.RequestStatus),
		Priority:          convertOpt[uint8, int16](t.Priority),
		DirectionRequest:  convertOpt[uint8, int16](t.DirectionRequest),
		Line:              convertOpt[uint32, int32](t.Line),
		RunNumber:         convertOpt[uint32, int32](t.RunNumber),
		DestinationNumber: convertOpt[uint32, int32](t.DestinationNumber),
		TrainLength:       convertOpt[uint8, int16](t.TrainLength),
		VehicleNumber:     convertOpt[uint32, int32](t.VehicleNumber),
		Operator:          convertOpt[uint8, int16](t.Operator),
		Region:            meta.Region,
	}
}

func convertOpt[From uint8 | uint32, To int16 | int32](v *From) *To {
	if v == nil {
		return nil
	}
	out := To(*v)
	return &out
}

// TransmissionPosition is a reporting point position as published in stops json. Older
// exports spell the key DHID, which the case-insensitive JSON decoder already accepts.
type TransmissionPosition struct {
	DHID          *string       `json:"dhid"`
	Name          *string       `json:"name"`
	RequestStatus RequestStatus `json:"request_status"`
	Direction     int16         `json:"direction"`
	Lat           float64       `json:"lat"`
	Lon           float64       `json:"lon"`
}
