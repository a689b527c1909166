package entities

import "github.com/jagua-go/packing/pkg/packerr"

func itemNotFoundErr(itemID int) error {
	return packerr.Newf(packerr.Internal, "unknown item id %d", itemID)
}

func quantityExhaustedErr(itemID int) error {
	return packerr.Newf(packerr.QuantityExhausted, "item %d has no missing quantity left to place", itemID)
}

func noStockErr(binID int) error {
	return packerr.Newf(packerr.NoStock, "bin template %d has no stock left", binID)
}

func binNotFoundErr(binID int) error {
	return packerr.Newf(packerr.InvalidInput, "unknown bin id %d", binID)
}

func layoutIndexErr(index int) error {
	return packerr.Newf(packerr.InvalidInput, "layout index %d out of range", index)
}

func uidNotFoundErr(uid PlacedItemUID) error {
	return packerr.Newf(packerr.Internal, "unknown placed item uid %d", uid)
}
