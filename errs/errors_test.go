package errs_test

import (
	"testing"

	"github.com/emqx/neuron-sub004/errs"
)

func TestNewDefaultMessage(t *testing.T) {
	e := errs.New(errs.TagNameExist, "")
	if e.Code() != errs.TagNameExist {
		t.Fatalf("expected code %d, got %d", errs.TagNameExist, e.Code())
	}
	if !e.IsCode(errs.TagNameExist) {
		t.Fatalf("IsCode should match own code")
	}
	want := "[2017] tag name already exists"
	if e.Error() != want {
		t.Fatalf("expected %q, got %q", want, e.Error())
	}
}

func TestHasCodeWalksParents(t *testing.T) {
	root := errs.New(errs.ECLOSED, "")
	wrapped := errs.New(errs.EINTERNAL, "wrapping", root)

	if !wrapped.HasCode(errs.ECLOSED) {
		t.Fatalf("expected HasCode to find parent code")
	}
	if wrapped.IsCode(errs.ECLOSED) {
		t.Fatalf("IsCode must not match parent codes")
	}
}

func TestIsDomain(t *testing.T) {
	if errs.ECLOSED.IsDomain() {
		t.Fatalf("ECLOSED should not be a domain code")
	}
	if !errs.FAILURE.IsDomain() {
		t.Fatalf("FAILURE should be a domain code")
	}
}

func TestCodeOfNonError(t *testing.T) {
	if errs.CodeOf(nil) != errs.FAILURE {
		t.Fatalf("CodeOf(nil) should default to FAILURE")
	}
}
