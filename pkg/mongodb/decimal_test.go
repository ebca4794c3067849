package mongodb

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type weighed struct {
	Weight decimal.Decimal  `bson:"weight"`
	Actual *decimal.Decimal `bson:"actual,omitempty"`
}

func TestDecimalCodec_WritesDecimal128(t *testing.T) {
	reg := NewRegistry()
	data, err := bson.MarshalWithRegistry(reg, weighed{Weight: decimal.RequireFromString("4.8")})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	raw := bson.Raw(data)
	v := raw.Lookup("weight")
	d128, ok := v.Decimal128OK()
	if !ok {
		t.Fatalf("weight stored as %v, want Decimal128", v.Type)
	}
	if d128.String() != "4.8" {
		t.Errorf("weight = %s, want 4.8", d128.String())
	}
	if _, err := raw.LookupErr("actual"); err == nil {
		t.Error("nil actual was written, want omitted")
	}
}

func TestDecimalCodec_ReadsLegacyTypes(t *testing.T) {
	reg := NewRegistry()
	d128, err := primitive.ParseDecimal128("25")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		doc  bson.M
		want string
	}{
		{"decimal128", bson.M{"weight": d128}, "25"},
		{"string", bson.M{"weight": "2.5"}, "2.5"},
		{"double", bson.M{"weight": 1.25}, "1.25"},
		{"int32", bson.M{"weight": int32(7)}, "7"},
		{"int64", bson.M{"weight": int64(9)}, "9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := bson.Marshal(tt.doc)
			if err != nil {
				t.Fatal(err)
			}
			var out weighed
			if err := bson.UnmarshalWithRegistry(reg, data, &out); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if !out.Weight.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Weight = %s, want %s", out.Weight, tt.want)
			}
		})
	}
}

func TestDecimalCodec_PointerRoundTrip(t *testing.T) {
	reg := NewRegistry()
	actual := decimal.RequireFromString("0.125")
	data, err := bson.MarshalWithRegistry(reg, weighed{Weight: decimal.NewFromInt(1), Actual: &actual})
	if err != nil {
		t.Fatal(err)
	}
	var out weighed
	if err := bson.UnmarshalWithRegistry(reg, data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Actual == nil || !out.Actual.Equal(actual) {
		t.Errorf("Actual = %v, want 0.125", out.Actual)
	}
}
