package backend

import (
	"testing"
)

func TestCoinsPerUtxoByteValueDefault(t *testing.T) {
	pp := ProtocolParameters{}
	val := pp.CoinsPerUtxoByteValue()
	if val != 4310 {
		t.Errorf("expected default 4310, got %d", val)
	}
}

func TestCoinsPerUtxoByteValueFromString(t *testing.T) {
	pp := ProtocolParameters{CoinsPerUtxoByte: "4310"}
	val := pp.CoinsPerUtxoByteValue()
	if val != 4310 {
		t.Errorf("expected 4310, got %d", val)
	}
}

func TestCoinsPerUtxoByteValueCustom(t *testing.T) {
	pp := ProtocolParameters{CoinsPerUtxoByte: "8620"}
	val := pp.CoinsPerUtxoByteValue()
	if val != 8620 {
		t.Errorf("expected 8620, got %d", val)
	}
}

func TestCoinsPerUtxoByteValueInvalid(t *testing.T) {
	pp := ProtocolParameters{CoinsPerUtxoByte: "not-a-number"}
	val := pp.CoinsPerUtxoByteValue()
	if val != 4310 {
		t.Errorf("expected fallback 4310, got %d", val)
	}
}
