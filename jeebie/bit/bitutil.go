package bit

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the high (MSB) part of a 16 bit number.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// IsSet will check if the bit at the specified index is set to 1 or not.
func IsSet(index, value uint8) bool {
	return ((value >> index) & 1) == 1
}

// IsSet16 is IsSet for 16 bit values.
func IsSet16(index uint8, value uint16) bool {
	return ((value >> index) & 1) == 1
}

// Set will return the passed byte with the bit at the specified index set to 1.
func Set(index, value uint8) uint8 {
	return value | (1 << index)
}

// Reset will return the passed byte with the bit at the specified index set to 0.
func Reset(index, value uint8) uint8 {
	return value &^ (1 << index)
}

// SetTo sets or resets the bit at index depending on the condition.
func SetTo(index, value uint8, set bool) uint8 {
	if set {
		return Set(index, value)
	}
	return Reset(index, value)
}

// GetBitValue returns a byte set to the value of the bit at the specified index.
func GetBitValue(index, value uint8) uint8 {
	return (value >> index) & 1
}

// CarryAdd reports whether a + b + carry overflows 8 bits.
func CarryAdd(a, b, carry uint8) bool {
	return uint16(a)+uint16(b)+uint16(carry) > 0xFF
}

// HalfCarryAdd reports whether a + b + carry carries out of bit 3.
func HalfCarryAdd(a, b, carry uint8) bool {
	return (a&0x0F)+(b&0x0F)+carry > 0x0F
}

// Borrow reports whether a - b - carry needs a borrow.
func Borrow(a, b, carry uint8) bool {
	return uint16(a) < uint16(b)+uint16(carry)
}

// HalfBorrow reports whether a - b - carry borrows from bit 4.
func HalfBorrow(a, b, carry uint8) bool {
	return a&0x0F < (b&0x0F)+carry
}
