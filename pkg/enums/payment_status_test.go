package enums

import "testing"

func TestDerivePaymentStatusExhaustive(t *testing.T) {
	cases := map[PaymentMethod]PaymentStatus{
		PaymentMethodCOD:  PaymentStatusPending,
		PaymentMethodUPI:  PaymentStatusPaid,
		PaymentMethodCard: PaymentStatusPaid,
	}
	if len(cases) != len(validPaymentMethods) {
		t.Fatalf("case table out of sync with valid methods")
	}
	for method, want := range cases {
		if got := DerivePaymentStatus(method); got != want {
			t.Fatalf("method %s: expected %s, got %s", method, want, got)
		}
	}
}

func TestParsePaymentMethod(t *testing.T) {
	if _, err := ParsePaymentMethod("upi"); err != nil {
		t.Fatalf("upi should parse: %v", err)
	}
	if _, err := ParsePaymentMethod("wallet"); err == nil {
		t.Fatal("unknown method should be rejected")
	}
}

func TestParseOrderStatus(t *testing.T) {
	if _, err := ParseOrderStatus("pending"); err != nil {
		t.Fatalf("pending should parse: %v", err)
	}
	if _, err := ParseOrderStatus("lost"); err == nil {
		t.Fatal("unknown status should be rejected")
	}
}
