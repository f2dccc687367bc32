package xmlbind

import (
	"io"
	"sync"

	"github.com/go-xmlbind/xmlbind/internal/token"
	"github.com/go-xmlbind/xmlbind/source/stdxml"
)

// Exported aliases so builders and drivers can share the token model without
// importing internal packages. The alias and constants mirror internal/token.
type (
	Token  = token.Token
	Kind   = token.Kind
	Attr   = token.Attr
	Source = token.Source
)

const (
	KindStartDocument Kind = token.KindStartDocument
	KindStartElement  Kind = token.KindStartElement
	KindEndElement    Kind = token.KindEndElement
	KindCharData      Kind = token.KindCharData
	KindCData         Kind = token.KindCData
	KindEndDocument   Kind = token.KindEndDocument
)

// XMLDriver converts XML input into a Source via a pluggable SPI. The default
// implementation is based on encoding/xml and may be swapped with SetXMLDriver.
type XMLDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	xmlDriverMu      sync.RWMutex
	currentXMLDriver XMLDriver = defaultXMLDriver{}
)

// SetXMLDriver replaces the global XML driver; nil values are ignored.
func SetXMLDriver(d XMLDriver) {
	if d == nil {
		return
	}
	xmlDriverMu.Lock()
	currentXMLDriver = d
	xmlDriverMu.Unlock()
}

// UseDefaultXMLDriver restores the default encoding/xml-backed driver.
func UseDefaultXMLDriver() {
	xmlDriverMu.Lock()
	currentXMLDriver = defaultXMLDriver{}
	xmlDriverMu.Unlock()
}

func getXMLDriver() XMLDriver {
	xmlDriverMu.RLock()
	d := currentXMLDriver
	xmlDriverMu.RUnlock()
	return d
}

// defaultXMLDriver wraps the encoding/xml implementation in source/stdxml.
type defaultXMLDriver struct{}

func (defaultXMLDriver) NewReader(r io.Reader) Source { return stdxml.NewReader(r) }
func (defaultXMLDriver) NewBytes(b []byte) Source     { return stdxml.NewBytes(b) }
func (defaultXMLDriver) Name() string                 { return "encoding/xml" }

// XMLReader wraps an io.Reader into a Source using the current driver.
func XMLReader(r io.Reader) Source { return getXMLDriver().NewReader(r) }

// XMLBytes wraps a byte slice into a Source using the current driver.
func XMLBytes(b []byte) Source { return getXMLDriver().NewBytes(b) }
