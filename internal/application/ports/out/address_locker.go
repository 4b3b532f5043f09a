package out

// AddressLocker serializes the check-then-act dispense sequence per
// recipient address. Lock blocks until the address is free and returns the
// matching unlock function.
type AddressLocker interface {
	Lock(address string) (unlock func())
}
