package layout

import "fmt"

// Checksum computes the 16-bit rotate-and-add checksum tmux requires on a
// layout string before `select-layout` will accept it. For each byte of the
// body, left to right: rotate the accumulator right by one bit (within 16
// bits), then add the byte, wrapping to 16 bits. Matches layout_checksum()
// in the tmux source bit for bit. Not cryptographic; purely an acceptance
// gate.
func Checksum(body string) uint16 {
	var csum uint16
	for i := 0; i < len(body); i++ {
		csum = (csum >> 1) | ((csum & 1) << 15)
		csum += uint16(body[i])
	}
	return csum
}

// WithChecksum prepends the checksum to a layout body in the wire form tmux
// expects: four lowercase zero-padded hex digits, a comma, then the body.
func WithChecksum(body string) string {
	return fmt.Sprintf("%04x,%s", Checksum(body), body)
}
