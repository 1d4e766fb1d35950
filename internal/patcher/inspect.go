package patcher

import (
	"github.com/samcharles93/md3fix/internal/orient"
	"github.com/samcharles93/md3fix/internal/report"
	"github.com/samcharles93/md3fix/pkg/md3"
)

// NormTolerance is how far a row norm may stray from 1 before Inspect flags it.
const NormTolerance = 1e-5

// Inspection is a read-only view of a model's header and tag records.
type Inspection struct {
	Ident        string    `json:"ident"`
	Version      int32     `json:"version"`
	Name         string    `json:"name"`
	Flags        int32     `json:"flags"`
	Frames       int32     `json:"frames"`
	TagsPerFrame int32     `json:"tags_per_frame"`
	Meshes       int32     `json:"meshes"`
	Skins        int32     `json:"skins"`
	TagOffset    int32     `json:"tag_offset"`
	EndOffset    int32     `json:"end_offset"`
	Size         int       `json:"size"`
	Unhealthy    int       `json:"unhealthy"`
	// Skewed counts records whose basis is not orthonormal, even if every row is
	// unit length. Patch does not repair these.
	Skewed       int       `json:"skewed"`
	Tags         []TagInfo `json:"tags"`
}

// TagInfo describes one tag record.
type TagInfo struct {
	Frame       int           `json:"frame"`
	Slot        int           `json:"slot"`
	Name        string        `json:"name"`
	Origin      report.Floats `json:"origin"`
	Matrix      report.Floats `json:"matrix"`
	RowNorms    report.Floats `json:"row_norms"`
	Normalized  bool          `json:"normalized"`
	Det         report.Float  `json:"det"`
	Orthonormal bool          `json:"orthonormal"`
}

// Inspect decodes buf without modifying it.
func Inspect(buf []byte) (*Inspection, error) {
	hdr, err := md3.ParseHeader(buf)
	if err != nil {
		return nil, err
	}
	table, err := md3.NewTagTable(buf, hdr)
	if err != nil {
		return nil, err
	}

	out := &Inspection{
		Ident:        string(hdr.Ident[:]),
		Version:      hdr.Version,
		Name:         hdr.ModelName(),
		Flags:        hdr.Flags,
		Frames:       hdr.FrameCount,
		TagsPerFrame: hdr.TagCount,
		Meshes:       hdr.MeshCount,
		Skins:        hdr.SkinCount,
		TagOffset:    hdr.TagOffset,
		EndOffset:    hdr.EndOffset,
		Size:         len(buf),
		Tags:         make([]TagInfo, 0, table.Len()),
	}
	for f := range table.Frames() {
		for s := range table.TagsPerFrame() {
			v := table.At(f, s)
			m := v.Matrix()
			origin := v.Origin()
			norms := orient.RowNorms(m)
			info := TagInfo{
				Frame:       f,
				Slot:        s,
				Name:        v.Name(),
				Origin:      report.Floats(origin[:]),
				Matrix:      report.Floats(m[:]),
				RowNorms:    report.Floats{float32(norms[0]), float32(norms[1]), float32(norms[2])},
				Normalized:  orient.IsNormalized(m, NormTolerance),
				Det:         report.Float(orient.Det(m)),
				Orthonormal: orient.IsOrthonormal(m, NormTolerance),
			}
			if !info.Normalized {
				out.Unhealthy++
			}
			if !info.Orthonormal {
				out.Skewed++
			}
			out.Tags = append(out.Tags, info)
		}
	}
	return out, nil
}
