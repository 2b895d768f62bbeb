package broker

import (
	"github.com/shopspring/decimal"

	"github.com/ahlstrom-labs/simbroker/internal/symbol"
	"github.com/ahlstrom-labs/simbroker/internal/wire"
)

// convertDecimals rescales an integer price quoted at srcDecimals of
// precision to one quoted at dstDecimals, using shopspring/decimal so the
// intermediate scaling never loses precision to float rounding — the core
// money path stays integer in and integer out.
func convertDecimals(value int64, srcDecimals, dstDecimals uint8) int64 {
	d := decimal.New(value, -int32(srcDecimals))
	scaled := d.Shift(int32(dstDecimals))
	return scaled.Round(0).IntPart()
}

// baseRateDecimals is the fixed precision get_base_rate normalizes to,
// per spec.md §4.3.
const baseRateDecimals = 10

// getBaseRate looks up the cross-rate pair converting symbolName into
// settings.FXBaseCurrency, trying the direct pair first and the reversed
// pair second, per spec.md's get_base_rate.
func getBaseRate(symbols *symbol.Table, settings Settings, symbolName string) (int64, error) {
	if !settings.FX {
		return 0, wire.NewMessageError("base rate requested while fx mode is disabled")
	}

	if sym, err := symbols.ByName(symbolName + settings.FXBaseCurrency); err == nil {
		_, ask, decimals := sym.GetPrice()
		return convertDecimals(ask, decimals, baseRateDecimals), nil
	}
	if sym, err := symbols.ByName(settings.FXBaseCurrency + symbolName); err == nil {
		_, ask, decimals := sym.GetPrice()
		return convertDecimals(ask, decimals, baseRateDecimals), nil
	}
	return 0, wire.ErrNoDataAvailable
}

// getPositionValue computes the balance-affecting value of size units of
// symbolName: for an FX symbol this is size * base_rate * fx_lot_size,
// with base_rate taken as-is at its fixed 10-decimal precision (no further
// rescaling); for a non-FX symbol the size passes through unchanged.
func getPositionValue(symbols *symbol.Table, settings Settings, symbolName string, isFX bool, size uint64) (uint64, error) {
	if !isFX {
		return size, nil
	}

	rate, err := getBaseRate(symbols, settings, symbolName)
	if err != nil {
		return 0, err
	}

	value := decimal.New(int64(size), 0).
		Mul(decimal.New(rate, 0)).
		Mul(decimal.New(int64(settings.FXLotSize), 0))
	return uint64(value.Round(0).IntPart()), nil
}
