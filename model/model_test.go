package model_test

import (
	"testing"
	"time"

	"github.com/emqx/neuron-sub004/model"
)

func TestGroupIntervalInvariant(t *testing.T) {
	if _, err := model.NewGroup(1, "g1", 50*time.Millisecond); err == nil {
		t.Fatalf("expected error for interval below 100ms")
	}
	if _, err := model.NewGroup(1, "g1", 25*time.Hour); err == nil {
		t.Fatalf("expected error for interval above 24h")
	}
	g, err := model.NewGroup(1, "g1", time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Key() != (model.GroupKey{NodeID: 1, Name: "g1"}) {
		t.Fatalf("unexpected key: %+v", g.Key())
	}
}

func TestGroupSubscriberOrderPreserved(t *testing.T) {
	g, _ := model.NewGroup(1, "g1", time.Second)
	g.AddSubscriber(3)
	g.AddSubscriber(1)
	g.AddSubscriber(2)
	g.AddSubscriber(1) // duplicate, ignored

	got := g.Subscribers()
	want := []model.NodeID{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %d subscribers, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("subscriber order mismatch at %d: got %v want %v", i, got, want)
		}
	}

	g.RemoveSubscriber(1)
	got = g.Subscribers()
	if len(got) != 2 || got[0] != 3 || got[1] != 2 {
		t.Fatalf("unexpected subscribers after remove: %v", got)
	}
}

func TestTagAttributeInvariant(t *testing.T) {
	tag := &model.Tag{Name: "t1", Address: "1!400001", Type: model.TypeU16}
	if err := tag.Validate(); err == nil {
		t.Fatalf("expected error for empty attribute set")
	}
	tag.Attribute = model.AttributeSet(model.AttrRead)
	if err := tag.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTagAddressOptionIsLazyAndMemoized(t *testing.T) {
	tag := &model.Tag{Name: "t1", Address: "1!400001#B", Type: model.TypeU16, Attribute: model.AttributeSet(model.AttrRead)}
	o1, err := tag.AddressOption()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o2, _ := tag.AddressOption()
	if o1 != o2 {
		t.Fatalf("expected memoized identical option")
	}
	if o1.Kind != 2 { // KindU16
		t.Fatalf("expected KindU16, got %v", o1.Kind)
	}
}

func TestSubscriptionNodeTypeInvariant(t *testing.T) {
	driver := &model.Node{Name: "d1", Type: model.NodeTypeDriver}
	app := &model.Node{Name: "a1", Type: model.NodeTypeApp}
	sub := &model.Subscription{}

	if err := sub.ValidateAgainst(app, driver); err == nil {
		t.Fatalf("expected error when publisher/subscriber types reversed")
	}
	if err := sub.ValidateAgainst(driver, app); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTemplateInstantiate(t *testing.T) {
	tpl := &model.Template{
		Name:       "T",
		PluginName: "modbus",
		Groups: []model.TemplateGroup{
			{Name: "g1", Interval: time.Second, Tags: []model.TemplateTag{
				{Name: "t1", Address: "1!400001", Type: model.TypeU16, Attribute: model.AttributeSet(model.AttrRead)},
				{Name: "t2", Address: "1!400002", Type: model.TypeU16, Attribute: model.AttributeSet(model.AttrRead)},
			}},
			{Name: "g2", Interval: 2 * time.Second, Tags: []model.TemplateTag{
				{Name: "t3", Address: "1!400003", Type: model.TypeU16, Attribute: model.AttributeSet(model.AttrRead)},
				{Name: "t4", Address: "1!400004", Type: model.TypeU16, Attribute: model.AttributeSet(model.AttrRead)},
			}},
		},
	}

	node, groups, tagsByGroup := tpl.Instantiate(42, "n42")
	if node.ID != 42 || node.Name != "n42" || node.PluginName != "modbus" {
		t.Fatalf("unexpected node: %+v", node)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	total := 0
	for _, tags := range tagsByGroup {
		total += len(tags)
	}
	if total != 4 {
		t.Fatalf("expected 4 tags total, got %d", total)
	}
}
