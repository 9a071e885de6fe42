package updates

import (
	"encoding/xml"
	"fmt"

	"github.com/orbit-updates/orbit/internal/build"
	"github.com/orbit-updates/orbit/internal/log"
	"github.com/orbit-updates/orbit/internal/settings"
)

// Document is a parsed update descriptor: every product and channel
// the update server advertises.
type Document struct {
	Products []Product
}

// Product groups the channels of one product line.
type Product struct {
	Name     string
	Code     string
	Channels []Channel
}

// ChannelsFor returns the channels of the product with the given
// code. An empty code matches every product.
func (d *Document) ChannelsFor(code string) []Channel {
	var out []Channel
	for _, p := range d.Products {
		if code == "" || p.Code == code {
			out = append(out, p.Channels...)
		}
	}
	return out
}

// Wire format of the update descriptor.
type xmlDocument struct {
	XMLName  xml.Name     `xml:"updates"`
	Products []xmlProduct `xml:"product"`
}

type xmlProduct struct {
	Name     string       `xml:"name,attr"`
	Code     string       `xml:"code,attr"`
	Channels []xmlChannel `xml:"channel"`
}

type xmlChannel struct {
	ID     string     `xml:"id,attr"`
	Name   string     `xml:"name,attr"`
	Status string     `xml:"status,attr"`
	URL    string     `xml:"url,attr"`
	Builds []xmlBuild `xml:"build"`
}

type xmlBuild struct {
	Number  string     `xml:"number,attr"`
	Version string     `xml:"version,attr"`
	Message string     `xml:"message"`
	Patches []xmlPatch `xml:"patch"`
}

type xmlPatch struct {
	From         string `xml:"from,attr"`
	Size         int    `xml:"size,attr"`
	URL          string `xml:"url,attr"`
	Checksum     string `xml:"checksum,attr"`
	SignatureURL string `xml:"signature-url,attr"`
}

// ParseDocument parses an update descriptor.
//
// Individual builds or patches with malformed build numbers are
// skipped with a warning rather than failing the whole document;
// a descriptor with no parsable products is an error.
func ParseDocument(data []byte, logger log.Logger) (*Document, error) {
	if logger == nil {
		logger = log.Default()
	}

	var wire xmlDocument
	if err := xml.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("malformed update descriptor: %w", err)
	}
	if len(wire.Products) == 0 {
		return nil, fmt.Errorf("update descriptor lists no products")
	}

	doc := &Document{}
	for _, p := range wire.Products {
		product := Product{Name: p.Name, Code: p.Code}
		for _, c := range p.Channels {
			status, err := settings.ParseChannelStatus(c.Status)
			if err != nil {
				logger.Warn("skipping channel with unknown status", "channel", c.ID, "status", c.Status)
				continue
			}
			channel := Channel{ID: c.ID, Name: c.Name, Status: status, URL: c.URL}
			for _, b := range c.Builds {
				number, err := build.Parse(b.Number)
				if err != nil {
					logger.Warn("skipping build with malformed number", "channel", c.ID, "number", b.Number)
					continue
				}
				entry := BuildEntry{Number: number, Version: b.Version, Message: b.Message}
				for _, patch := range b.Patches {
					from, err := build.Parse(patch.From)
					if err != nil {
						logger.Warn("skipping patch with malformed from-build", "build", b.Number, "from", patch.From)
						continue
					}
					entry.Patches = append(entry.Patches, Patch{
						From:         from,
						Size:         patch.Size,
						URL:          patch.URL,
						Checksum:     patch.Checksum,
						SignatureURL: patch.SignatureURL,
					})
				}
				channel.Builds = append(channel.Builds, entry)
			}
			product.Channels = append(product.Channels, channel)
		}
		doc.Products = append(doc.Products, product)
	}

	return doc, nil
}
