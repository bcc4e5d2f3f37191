package txbuilder

import (
	"fmt"

	"github.com/blinklabs-io/gouroboros/ledger/common"
)

// --- Bech32 Convenience Constructors ---

// AddressFromBech32 parses a bech32 address string.
func AddressFromBech32(bech32 string) (common.Address, error) {
	addr, err := common.NewAddress(bech32)
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid bech32 address: %w", err)
	}
	return addr, nil
}

// PayToAddressBech32 builds PaymentParams for a simple payment to a bech32 address.
func PayToAddressBech32(bech32 string, lovelace int64, units ...Unit) (PaymentParams, error) {
	payment, err := NewPayment(bech32, lovelace, units)
	if err != nil {
		return PaymentParams{}, err
	}
	return payment.ToPaymentParams()
}

// --- Datum Convenience Constructors ---

// PayToContractAsHash builds PaymentParams for a script address carrying a
// pre-computed datum hash. Unlike an inline datum, the full datum itself is
// not recorded anywhere in the built transaction.
func PayToContractAsHash(addr common.Address, datumHash []byte, lovelace int64, units ...Unit) (PaymentParams, error) {
	payment := &Payment{
		Receiver:  addr,
		Lovelace:  lovelace,
		Units:     units,
		DatumHash: datumHash,
	}
	return payment.ToPaymentParams()
}

// PayToContract builds PaymentParams for a script address carrying an inline datum.
func PayToContract(addr common.Address, datum *common.Datum, lovelace int64, units ...Unit) (PaymentParams, error) {
	payment := &Payment{
		Receiver: addr,
		Lovelace: lovelace,
		Units:    units,
		Datum:    datum,
		IsInline: true,
	}
	return payment.ToPaymentParams()
}

// --- Version-Specific Reference Script Constructors ---

// PayToAddressWithReferenceScript builds PaymentParams for a payment carrying
// a reference script attached to the output itself (no datum).
func PayToAddressWithReferenceScript(addr common.Address, lovelace int64, script common.Script, units ...Unit) (PaymentParams, error) {
	ref, err := NewScriptRef(script)
	if err != nil {
		return PaymentParams{}, fmt.Errorf("failed to create script ref: %w", err)
	}
	payment := &Payment{
		Receiver:  addr,
		Lovelace:  lovelace,
		Units:     units,
		ScriptRef: ref,
	}
	return payment.ToPaymentParams()
}

// PayToAddressWithV1ReferenceScript pays to an address with a Plutus V1 reference script attached.
func PayToAddressWithV1ReferenceScript(addr common.Address, lovelace int64, script common.PlutusV1Script, units ...Unit) (PaymentParams, error) {
	return PayToAddressWithReferenceScript(addr, lovelace, script, units...)
}

// PayToAddressWithV2ReferenceScript pays to an address with a Plutus V2 reference script attached.
func PayToAddressWithV2ReferenceScript(addr common.Address, lovelace int64, script common.PlutusV2Script, units ...Unit) (PaymentParams, error) {
	return PayToAddressWithReferenceScript(addr, lovelace, script, units...)
}

// PayToAddressWithV3ReferenceScript pays to an address with a Plutus V3 reference script attached.
func PayToAddressWithV3ReferenceScript(addr common.Address, lovelace int64, script common.PlutusV3Script, units ...Unit) (PaymentParams, error) {
	return PayToAddressWithReferenceScript(addr, lovelace, script, units...)
}

// PayToContractWithReferenceScript builds PaymentParams for a script address
// carrying both an inline datum and a reference script.
func PayToContractWithReferenceScript(addr common.Address, datum *common.Datum, lovelace int64, script common.Script, units ...Unit) (PaymentParams, error) {
	ref, err := NewScriptRef(script)
	if err != nil {
		return PaymentParams{}, fmt.Errorf("failed to create script ref: %w", err)
	}
	payment := &Payment{
		Receiver:  addr,
		Lovelace:  lovelace,
		Units:     units,
		Datum:     datum,
		IsInline:  true,
		ScriptRef: ref,
	}
	return payment.ToPaymentParams()
}

// PayToContractWithV1ReferenceScript pays to a script address with an inline datum and a Plutus V1 reference script.
func PayToContractWithV1ReferenceScript(addr common.Address, datum *common.Datum, lovelace int64, script common.PlutusV1Script, units ...Unit) (PaymentParams, error) {
	return PayToContractWithReferenceScript(addr, datum, lovelace, script, units...)
}

// PayToContractWithV2ReferenceScript pays to a script address with an inline datum and a Plutus V2 reference script.
func PayToContractWithV2ReferenceScript(addr common.Address, datum *common.Datum, lovelace int64, script common.PlutusV2Script, units ...Unit) (PaymentParams, error) {
	return PayToContractWithReferenceScript(addr, datum, lovelace, script, units...)
}

// PayToContractWithV3ReferenceScript pays to a script address with an inline datum and a Plutus V3 reference script.
func PayToContractWithV3ReferenceScript(addr common.Address, datum *common.Datum, lovelace int64, script common.PlutusV3Script, units ...Unit) (PaymentParams, error) {
	return PayToContractWithReferenceScript(addr, datum, lovelace, script, units...)
}
