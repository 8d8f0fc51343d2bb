package wire

import "hash/crc32"

// checksum computes the packet CRC-32 (spec §4.1): polynomial 0x04c11db7,
// reflected, initial value 0xffffffff, final XOR 0xffffffff — exactly
// hash/crc32.IEEE, so the stdlib table serves without a hand-rolled
// implementation (see DESIGN.md).
func checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}
