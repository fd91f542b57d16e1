package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"jinding-ha/internal/domain/model"
)

func TestToKNXText_Empty(t *testing.T) {
	assert.Equal(t, "knx:\n  light:", ToKNXText(nil))
	assert.Equal(t, "knx:\n  light:", ToKNXText([]model.KNXItem{}))
}

func TestToKNXText_SingleItem(t *testing.T) {
	got := ToKNXText([]model.KNXItem{{Name: "主灯", Address: "1/1/1"}})

	want := "knx:\n" +
		"  light:\n" +
		"    - name: \"主灯\"\n" +
		"      address: \"1/1/1\"\n" +
		"      state_address: \"1/1/1\""
	assert.Equal(t, want, got)
}

func TestToKNXText_SkipsIncompleteItems(t *testing.T) {
	got := ToKNXText([]model.KNXItem{
		{Name: "主卧主灯", Address: "1/0/2"},
		{Name: "无地址"},
		{Address: "9/9/9"},
		{Name: "餐厅", Address: "1/0/3"},
	})

	assert.NotContains(t, got, "无地址")
	assert.NotContains(t, got, "9/9/9")
	assert.Contains(t, got, "    - name: \"主卧主灯\"\n      address: \"1/0/2\"\n      state_address: \"1/0/2\"\n    - name: \"餐厅\"")
}

func TestToKNXText_Deterministic(t *testing.T) {
	items := []model.KNXItem{{Name: "a", Address: "1/1/1"}, {Name: "b", Address: "1/1/1"}}
	assert.Equal(t, ToKNXText(items), ToKNXText(items))
}

func TestToKNXText_NoEscaping(t *testing.T) {
	got := ToKNXText([]model.KNXItem{{Name: `he said "hi"`, Address: "1/1/1"}})
	assert.Contains(t, got, `    - name: "he said "hi""`)
}
