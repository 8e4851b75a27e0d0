package network

import (
	"fmt"
	"net"
)

// InterfaceRadio is a Radio over an OS-managed network interface.
//
// Attachment itself is handled outside the process (wpa_supplicant, DHCP),
// so Attach is a no-op; the radio only observes whether the named interface
// is up and holds a routable address.
type InterfaceRadio struct {
	name string
}

// NewInterfaceRadio creates a radio watching the named interface.
func NewInterfaceRadio(name string) *InterfaceRadio {
	return &InterfaceRadio{name: name}
}

// Attach is a no-op; the OS owns the attachment process.
func (r *InterfaceRadio) Attach() error {
	return nil
}

// Attached reports whether the interface is up with a global unicast address.
//
// A missing interface is reported as not attached rather than an error, so
// the supervisor keeps polling while drivers settle at boot.
func (r *InterfaceRadio) Attached() (bool, error) {
	iface, err := net.InterfaceByName(r.name)
	if err != nil {
		return false, nil
	}

	if iface.Flags&net.FlagUp == 0 {
		return false, nil
	}

	addr, err := r.globalUnicast(iface)
	if err != nil {
		return false, err
	}
	return addr != nil, nil
}

// Addr returns the interface's global unicast address.
func (r *InterfaceRadio) Addr() (string, error) {
	iface, err := net.InterfaceByName(r.name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoInterface, r.name)
	}

	addr, err := r.globalUnicast(iface)
	if err != nil {
		return "", err
	}
	if addr == nil {
		return "", fmt.Errorf("%w: %s has no address", ErrNoInterface, r.name)
	}
	return addr.String(), nil
}

// globalUnicast returns the first global unicast IP on the interface, or nil.
func (r *InterfaceRadio) globalUnicast(iface *net.Interface) (net.IP, error) {
	addrs, err := iface.Addrs()
	if err != nil {
		return nil, fmt.Errorf("listing addresses for %s: %w", r.name, err)
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if ipNet.IP.IsGlobalUnicast() {
			return ipNet.IP, nil
		}
	}
	return nil, nil
}
