package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Station is a receiver that captures R09 telegrams and submits them for collection. The
// token authenticates every submission and is never written out as JSON.
type Station struct {
	ID                     uuid.UUID `db:"id"`
	Token                  *string   `db:"token"`
	Name                   string    `db:"name"`
	Lat                    float64   `db:"lat"`
	Lon                    float64   `db:"lon"`
	Region                 int64     `db:"region"`
	Owner                  uuid.UUID `db:"owner"`
	Approved               bool      `db:"approved"`
	Deactivated            bool      `db:"deactivated"`
	Public                 bool      `db:"public"`
	Radio                  *int32    `db:"radio"`
	Architecture           *int32    `db:"architecture"`
	Device                 *int32    `db:"device"`
	Elevation              *float64  `db:"elevation"`
	Antenna                *int32    `db:"antenna"`
	TelegramDecoderVersion *string   `db:"telegram_decoder_version"`
	Notes                  *string   `db:"notes"`
	Organization           uuid.UUID `db:"organization"`
}

type stationJSON struct {
	ID                     uuid.UUID `json:"id"`
	Name                   string    `json:"name"`
	Lat                    float64   `json:"lat"`
	Lon                    float64   `json:"lon"`
	Region                 int64     `json:"region"`
	Owner                  uuid.UUID `json:"owner"`
	Approved               bool      `json:"approved"`
	Deactivated            bool      `json:"deactivated"`
	Public                 bool      `json:"public"`
	Radio                  *int32    `json:"radio"`
	Architecture           *int32    `json:"architecture"`
	Device                 *int32    `json:"device"`
	Elevation              *float64  `json:"elevation"`
	TelegramDecoderVersion *string   `json:"telegram_decoder_version"`
	Antenna                *int32    `json:"antenna"`
	Notes                  *string   `json:"notes"`
	Organization           uuid.UUID `json:"organization"`
}

type stationInJSON struct {
	stationJSON
	Token *string `json:"token"`
}

func (s Station) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.public())
}

// UnmarshalJSON accepts the token so registration payloads can carry it.
func (s *Station) UnmarshalJSON(data []byte) error {
	var in stationInJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = Station{
		ID:                     in.ID,
		Token:                  in.Token,
		Name:                   in.Name,
		Lat:                    in.Lat,
		Lon:                    in.Lon,
		Region:                 in.Region,
		Owner:                  in.Owner,
		Approved:               in.Approved,
		Deactivated:            in.Deactivated,
		Public:                 in.Public,
		Radio:                  in.Radio,
		Architecture:           in.Architecture,
		Device:                 in.Device,
		Elevation:              in.Elevation,
		Antenna:                in.Antenna,
		TelegramDecoderVersion: in.TelegramDecoderVersion,
		Notes:                  in.Notes,
		Organization:           in.Organization,
	}
	return nil
}

func (s Station) public() stationJSON {
	return stationJSON{
		ID:                     s.ID,
		Name:                   s.Name,
		Lat:                    s.Lat,
		Lon:                    s.Lon,
		Region:                 s.Region,
		Owner:                  s.Owner,
		Approved:               s.Approved,
		Deactivated:            s.Deactivated,
		Public:                 s.Public,
		Radio:                  s.Radio,
		Architecture:           s.Architecture,
		Device:                 s.Device,
		Elevation:              s.Elevation,
		TelegramDecoderVersion: s.TelegramDecoderVersion,
		Antenna:                s.Antenna,
		Notes:                  s.Notes,
		Organization:           s.Organization,
	}
}

// RadioReceiver is the public view of a station used by map clients.
type RadioReceiver struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Region uint32    `json:"region"`
	Lat    float64   `json:"lat"`
	Lon    float64   `json:"lon"`
}

// Device is the computer a station runs on.
type Device int32

const (
	DeviceOther Device = iota
	DeviceRaspberry3
	DeviceRaspberry3b
	DeviceRaspberry3bPlus
	DeviceRaspberry4
	DeviceOdroidC1
	DeviceOdroidC2
	DeviceOdroidC4
	DeviceOdroidN2
	DeviceOdroidU2
	DeviceOdroidU3
	DevicePineH64
	DevicePineRock64
	DeviceDellWyse3040
)

// DeviceString returns the deployment target name of a device.
func DeviceString(d Device) string {
	switch d {
	case DeviceRaspberry3, DeviceRaspberry3b, DeviceRaspberry3bPlus:
		return "rpi3"
	case DeviceRaspberry4:
		return "rpi4"
	case DeviceDellWyse3040:
		return "dell-wyse-3040"
	default:
		return "other"
	}
}

// Radio is the software defined radio a station uses.
type Radio int32

const (
	RadioOther Radio = iota
	RadioHackRf
	RadioRTLSDR
	RadioNESDR
)

type Architecture int32

const (
	ArchitectureOther Architecture = iota
	ArchitectureX86
	ArchitectureAarch64
)

func ArchitectureString(a Architecture) string {
	switch a {
	case ArchitectureX86:
		return "x86_64-linux"
	case ArchitectureAarch64:
		return "aarch64-linux"
	default:
		return "other"
	}
}

// Antenna is the antenna type telegrams are captured with.
type Antenna int32

const (
	AntennaOther Antenna = iota
	AntennaDipole
	AntennaGroundPlane
	AntennaYagi
)

// Encoding is how the data inside a region's telegrams is modulated.
type Encoding int32

const (
	EncodingOther Encoding = iota
	EncodingOnOffKeying
	EncodingNemo
)
