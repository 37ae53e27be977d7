package ipselection

import (
	"fmt"
	"math/big"
	"net/netip"

	"github.com/go-logr/logr"
	"github.com/henderiw/selection/pkg/interval"
	"github.com/henderiw/selection/pkg/selection"
	"go4.org/netipx"
)

// IPSelection is a selection of addresses within a fixed IP range.
type IPSelection interface {
	Select(from, to string) error
	Deselect(from, to string) error

	Count() int64
	Has(addr string) bool

	IsFree(addr string) bool
	FindFree() (netip.Addr, error)

	Ranges() []netipx.IPRange
}

// New returns an empty selection of the addresses from..to. The range may
// hold at most interval.MaxPosition addresses.
func New(from, to netip.Addr, log logr.Logger) (IPSelection, error) {
	ipRange := netipx.IPRangeFrom(from, to)
	if !ipRange.IsValid() {
		return nil, fmt.Errorf("%w: ip range from %s to %s is invalid", interval.ErrInvalidRange, from, to)
	}
	size := new(big.Int).Sub(ipToInt(to), ipToInt(from))
	if !size.IsInt64() || size.Int64() > interval.MaxPosition {
		return nil, fmt.Errorf("%w: ip range %s has too many addresses", interval.ErrInvalidArgument, ipRange)
	}
	sel, err := selection.New(
		selection.WithBounds(0, size.Int64()),
		selection.WithLogger(log.WithValues("ipRange", ipRange.String())),
	)
	if err != nil {
		return nil, err
	}
	return &ipSelection{
		sel:     sel,
		ipRange: ipRange,
	}, nil
}

type ipSelection struct {
	sel     selection.Selection
	ipRange netipx.IPRange
}

func (r *ipSelection) Select(from, to string) error {
	begin, end, err := r.validateRange(from, to)
	if err != nil {
		return err
	}
	return r.sel.Select(begin, end)
}

func (r *ipSelection) Deselect(from, to string) error {
	begin, end, err := r.validateRange(from, to)
	if err != nil {
		return err
	}
	return r.sel.Deselect(begin, end)
}

func (r *ipSelection) Count() int64 {
	return r.sel.Count()
}

func (r *ipSelection) Has(addr string) bool {
	// Validate IP address
	ip, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	return r.sel.Has(calculateIndex(ip, r.ipRange.From()))
}

func (r *ipSelection) IsFree(addr string) bool {
	// Validate IP address
	ip, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	return r.sel.IsFree(calculateIndex(ip, r.ipRange.From()))
}

func (r *ipSelection) FindFree() (netip.Addr, error) {
	id, err := r.sel.FindFree()
	if err != nil {
		return netip.Addr{}, err
	}
	return calculateIPFromIndex(r.ipRange.From(), id), nil
}

func (r *ipSelection) Ranges() []netipx.IPRange {
	rr := r.sel.Ranges()
	out := make([]netipx.IPRange, 0, len(rr))
	for _, iv := range rr {
		out = append(out, netipx.IPRangeFrom(
			calculateIPFromIndex(r.ipRange.From(), iv.Begin()),
			calculateIPFromIndex(r.ipRange.From(), iv.End()),
		))
	}
	return out
}

func (r *ipSelection) validateRange(from, to string) (int64, int64, error) {
	fromIP, err := r.validateIP(from)
	if err != nil {
		return 0, 0, err
	}
	toIP, err := r.validateIP(to)
	if err != nil {
		return 0, 0, err
	}
	if toIP.Less(fromIP) {
		return 0, 0, fmt.Errorf("%w: ip address %s is before %s", interval.ErrInvalidRange, to, from)
	}
	return calculateIndex(fromIP, r.ipRange.From()), calculateIndex(toIP, r.ipRange.From()), nil
}

func (r *ipSelection) validateIP(addr string) (netip.Addr, error) {
	// Parse IP address
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: ip address %s is invalid", interval.ErrInvalidArgument, addr)
	}
	if !r.ipRange.Contains(ip) {
		return netip.Addr{}, fmt.Errorf("%w: ip address %s, does not fit in the range from %s to %s", interval.ErrInvalidArgument, addr, r.ipRange.From().String(), r.ipRange.To().String())
	}
	return ip, nil
}

func calculateIndex(ip, start netip.Addr) int64 {
	return new(big.Int).Sub(ipToInt(ip), ipToInt(start)).Int64()
}

func ipToInt(ip netip.Addr) *big.Int {
	bytes := ip.As16()
	return new(big.Int).SetBytes(bytes[:])
}

func calculateIPFromIndex(startIP netip.Addr, id int64) netip.Addr {
	ipInt := new(big.Int).Add(ipToInt(startIP), big.NewInt(id))

	var ip16 [16]byte
	ipInt.FillBytes(ip16[:])

	if startIP.Is4() {
		return netip.AddrFrom4(netip.AddrFrom16(ip16).As4())
	}
	return netip.AddrFrom16(ip16)
}
