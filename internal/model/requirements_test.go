package model

import (
	"reflect"
	"testing"
)

func TestDimensions(t *testing.T) {
	tests := []struct {
		name string
		req  BufferRequirements
		want []int
		ok   bool
	}{
		{"nil requirements", nil, nil, false},
		{"empty requirements", BufferRequirements{}, nil, false},
		{"dimensions key", BufferRequirements{"dimensions": []int64{1, 3, 224, 224}}, []int{1, 3, 224, 224}, true},
		{"shape key", BufferRequirements{"shape": []int{1, 224, 224, 3}}, []int{1, 224, 224, 3}, true},
		{"dims key", BufferRequirements{"dims": []any{3, 32, 32}}, []int{3, 32, 32}, true},
		{"dimensions precede shape", BufferRequirements{"dimensions": []int{1, 3, 8, 8}, "shape": []int{9, 9}}, []int{1, 3, 8, 8}, true},
		{"empty list falls through to next key", BufferRequirements{"dimensions": []int{}, "shape": []int{1, 3, 8, 8}}, []int{1, 3, 8, 8}, true},
		{"nil value falls through to next key", BufferRequirements{"dimensions": nil, "dims": []int{3, 16, 16}}, []int{3, 16, 16}, true},
		{"numeric strings coerce", BufferRequirements{"dimensions": []any{"1", "3", "224", "224"}}, []int{1, 3, 224, 224}, true},
		{"negative sentinel survives", BufferRequirements{"dimensions": []int64{-1, 3, 299, 299}}, []int{-1, 3, 299, 299}, true},
		{"non-numeric dim stops the lookup", BufferRequirements{"dimensions": []any{"tall", 3}, "shape": []int{1, 3, 8, 8}}, nil, false},
		{"scalar value is malformed", BufferRequirements{"dimensions": 4}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.req.Dimensions()
			if ok != tt.ok {
				t.Fatalf("Dimensions() ok = %v, want %v", ok, tt.ok)
			}
			if tt.ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Dimensions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSupportedTypes(t *testing.T) {
	tests := []struct {
		name string
		req  BufferRequirements
		want []ElementType
	}{
		{"missing key", BufferRequirements{}, nil},
		{"ints", BufferRequirements{"supported_types": []int{9, 1}}, []ElementType{ElementInt8, ElementFloat32}},
		{"order preserved", BufferRequirements{"supported_types": []any{1, 9, 3, 2}}, []ElementType{ElementFloat32, ElementInt8, ElementUInt8, ElementInt32}},
		{"malformed entry empties the list", BufferRequirements{"supported_types": []any{"float"}}, nil},
		{"scalar is malformed", BufferRequirements{"supported_types": "1"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.req.SupportedTypes()
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SupportedTypes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBufferSize(t *testing.T) {
	tests := []struct {
		name string
		req  BufferRequirements
		want int
	}{
		{"missing key", BufferRequirements{}, 0},
		{"int", BufferRequirements{"buffer_size": 4000}, 4000},
		{"numeric string", BufferRequirements{"buffer_size": "128"}, 128},
		{"non-numeric", BufferRequirements{"buffer_size": "lots"}, 0},
		{"negative is clamped", BufferRequirements{"buffer_size": -8}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.BufferSize(); got != tt.want {
				t.Errorf("BufferSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestElementTypeByteWidth(t *testing.T) {
	tests := []struct {
		elem ElementType
		want int
	}{
		{ElementFloat32, 4},
		{ElementInt32, 4},
		{ElementUInt8, 1},
		{ElementInt8, 1},
		{ElementInt64, 8},
		{ElementFloat64, 8},
		{ElementFloat16, 2},
		{ElementString, 0},
		{ElementNone, 0},
	}
	for _, tt := range tests {
		if got := tt.elem.ByteWidth(); got != tt.want {
			t.Errorf("%s.ByteWidth() = %d, want %d", tt.elem, got, tt.want)
		}
	}
}
