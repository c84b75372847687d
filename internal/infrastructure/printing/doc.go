// Package printing renders generated bills as printable HTML and converts
// them to PDF with a headless Chrome instance driven over the DevTools
// protocol.
package printing
