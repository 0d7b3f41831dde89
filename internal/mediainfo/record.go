package mediainfo

import (
	"slices"
	"strings"
)

// ParseSection maps every "Key : Value" line of a section to its trimmed
// value. Only the first colon separates key from value, so values such as
// timestamps keep theirs. Lines without a colon are skipped and a repeated
// key keeps its last value.
func ParseSection(text string) map[string]string {
	fields := make(map[string]string)
	for _, line := range splitLines(text) {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return fields
}

// StreamRecord is the typed view of one audio stream block. Every field is a
// string exactly as mediainfo printed it; absent keys are "".
type StreamRecord struct {
	ID                   string `json:"id"`
	Format               string `json:"format"`
	FormatInfo           string `json:"format_info"`
	CommercialName       string `json:"commercial_name"`
	CodecID              string `json:"codec_id"`
	Duration             string `json:"duration"`
	BitRateMode          string `json:"bit_rate_mode"`
	BitRate              string `json:"bit_rate"`
	Channels             string `json:"channels"`
	ChannelLayout        string `json:"channel_layout"`
	SamplingRate         string `json:"sampling_rate"`
	FrameRate            string `json:"frame_rate"`
	CompressionMode      string `json:"compression_mode"`
	StreamSize           string `json:"stream_size"`
	Title                string `json:"title"`
	Language             string `json:"language"`
	ServiceKind          string `json:"service_kind"`
	Default              string `json:"default"`
	Forced               string `json:"forced"`
	MaximumBitRate       string `json:"maximum_bit_rate"`
	DelayRelativeToVideo string `json:"delay_relative_to_video"`
}

// streamKeys pairs each StreamRecord field with the mediainfo key it is read from.
var streamKeys = []struct {
	key string
	get func(*StreamRecord) *string
}{
	{"ID", func(r *StreamRecord) *string { return &r.ID }},
	{"Format", func(r *StreamRecord) *string { return &r.Format }},
	{"Format/Info", func(r *StreamRecord) *string { return &r.FormatInfo }},
	{"Commercial name", func(r *StreamRecord) *string { return &r.CommercialName }},
	{"Codec ID", func(r *StreamRecord) *string { return &r.CodecID }},
	{"Duration", func(r *StreamRecord) *string { return &r.Duration }},
	{"Bit rate mode", func(r *StreamRecord) *string { return &r.BitRateMode }},
	{"Bit rate", func(r *StreamRecord) *string { return &r.BitRate }},
	{"Channel(s)", func(r *StreamRecord) *string { return &r.Channels }},
	{"Channel layout", func(r *StreamRecord) *string { return &r.ChannelLayout }},
	{"Sampling rate", func(r *StreamRecord) *string { return &r.SamplingRate }},
	{"Frame rate", func(r *StreamRecord) *string { return &r.FrameRate }},
	{"Compression mode", func(r *StreamRecord) *string { return &r.CompressionMode }},
	{"Stream size", func(r *StreamRecord) *string { return &r.StreamSize }},
	{"Title", func(r *StreamRecord) *string { return &r.Title }},
	{"Language", func(r *StreamRecord) *string { return &r.Language }},
	{"Service kind", func(r *StreamRecord) *string { return &r.ServiceKind }},
	{"Default", func(r *StreamRecord) *string { return &r.Default }},
	{"Forced", func(r *StreamRecord) *string { return &r.Forced }},
	{"Maximum bit rate", func(r *StreamRecord) *string { return &r.MaximumBitRate }},
	{"Delay relative to video", func(r *StreamRecord) *string { return &r.DelayRelativeToVideo }},
}

// StreamKeys returns the mediainfo keys read into a StreamRecord, in field order.
func StreamKeys() []string {
	keys := make([]string, len(streamKeys))
	for i, k := range streamKeys {
		keys[i] = k.key
	}
	return keys
}

// NewStreamRecord builds a record from a parsed section. No value is
// coerced; unknown keys are ignored.
func NewStreamRecord(fields map[string]string) StreamRecord {
	var r StreamRecord
	for _, k := range streamKeys {
		*k.get(&r) = fields[k.key]
	}
	return r
}

// Values returns the record's values in field order.
func (r StreamRecord) Values() []string {
	out := make([]string, len(streamKeys))
	for i, k := range streamKeys {
		out[i] = *k.get(&r)
	}
	return out
}

// IsDefault reports whether mediainfo flagged the stream as default.
func (r StreamRecord) IsDefault() bool {
	return strings.EqualFold(r.Default, "yes")
}

// StreamRecords parses every audio block of report.
func StreamRecords(report string) []StreamRecord {
	var out []StreamRecord
	for section := range AudioSections(report) {
		out = append(out, NewStreamRecord(ParseSection(section)))
	}
	return out
}

// SubtitleLanguages returns the language of every text stream, skipping
// streams without one and keeping report order.
func SubtitleLanguages(report string) []string {
	var langs []string
	for section := range Sections(report, KindText) {
		if lang := ParseSection(section)["Language"]; lang != "" {
			langs = append(langs, lang)
		}
	}
	return slices.Clip(langs)
}

// General returns the parsed General block, or an empty map when the report has none.
func General(report string) map[string]string {
	for section := range Sections(report, KindGeneral) {
		return ParseSection(section)
	}
	return map[string]string{}
}
