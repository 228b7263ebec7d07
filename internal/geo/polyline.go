package geo

import (
	"math"
	"strings"

	"moto-route-service/internal/domain"
)

// DecodePolyline decodes a Google-encoded polyline string into points.
// See https://developers.google.com/maps/documentation/utilities/polylinealgorithm
func DecodePolyline(encoded string) []domain.LatLng {
	var points []domain.LatLng
	index, lat, lng := 0, 0, 0

	for index < len(encoded) {
		dLat, next := decodeDelta(encoded, index)
		index = next
		lat += dLat

		dLng, next := decodeDelta(encoded, index)
		index = next
		lng += dLng

		points = append(points, domain.LatLng{
			Lat: float64(lat) / 1e5,
			Lng: float64(lng) / 1e5,
		})
	}

	return points
}

func decodeDelta(encoded string, index int) (delta, next int) {
	shift := 0
	value := 0
	for index < len(encoded) {
		b := int(encoded[index]) - 63
		index++
		value |= (b & 0x1F) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if value&1 != 0 {
		return ^(value >> 1), index
	}
	return value >> 1, index
}

// EncodePolyline encodes points into a Google-encoded polyline string.
func EncodePolyline(points []domain.LatLng) string {
	var sb strings.Builder
	prevLat, prevLng := 0, 0

	for _, p := range points {
		latE5 := int(math.Round(p.Lat * 1e5))
		lngE5 := int(math.Round(p.Lng * 1e5))

		encodeDelta(&sb, latE5-prevLat)
		encodeDelta(&sb, lngE5-prevLng)

		prevLat = latE5
		prevLng = lngE5
	}

	return sb.String()
}

func encodeDelta(sb *strings.Builder, delta int) {
	value := delta << 1
	if delta < 0 {
		value = ^value
	}
	for value >= 0x20 {
		sb.WriteByte(byte((0x20 | (value & 0x1F)) + 63))
		value >>= 5
	}
	sb.WriteByte(byte(value + 63))
}
