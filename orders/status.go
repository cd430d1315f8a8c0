package orders

import (
	"strings"

	"freshcart/toast"
)

// Status is a delivery stage. Labels outside the known set parse to
// StatusUnknown.
type Status int

const (
	StatusUnknown Status = iota
	StatusOrderPlaced
	StatusPreparing
	StatusOutForDelivery
	StatusDelivered
)

// Statuses lists the known stages in delivery order.
var Statuses = []Status{StatusOrderPlaced, StatusPreparing, StatusOutForDelivery, StatusDelivered}

// Notice is what the shopper is told when a stage completes.
type Notice struct {
	Icon        string
	Kind        toast.Kind
	Title       string
	Description string
}

type statusInfo struct {
	label  string
	slug   string
	notice Notice
}

var statusTable = map[Status]statusInfo{
	StatusUnknown: {
		label:  "Unknown",
		slug:   "unknown",
		notice: Notice{Icon: "bell", Kind: toast.KindInfo, Title: "Order status updated"},
	},
	StatusOrderPlaced: {
		label:  "Order Placed",
		slug:   "order-placed",
		notice: Notice{Icon: "check", Kind: toast.KindSuccess, Title: "Order confirmed", Description: "We've received your order"},
	},
	StatusPreparing: {
		label:  "Preparing",
		slug:   "preparing",
		notice: Notice{Icon: "package", Kind: toast.KindInfo, Title: "Preparing your order", Description: "Your items are being picked and packed"},
	},
	StatusOutForDelivery: {
		label:  "Out for Delivery",
		slug:   "out-for-delivery",
		notice: Notice{Icon: "truck", Kind: toast.KindInfo, Title: "Out for delivery", Description: "Your driver is on the way"},
	},
	StatusDelivered: {
		label:  "Delivered",
		slug:   "delivered",
		notice: Notice{Icon: "check-circle", Kind: toast.KindSuccess, Title: "Delivered", Description: "Your order has arrived. Enjoy!"},
	},
}

// ParseStatus maps a step label or slug to its Status.
func ParseStatus(s string) Status {
	s = strings.TrimSpace(s)
	for st, info := range statusTable {
		if st == StatusUnknown {
			continue
		}
		if strings.EqualFold(s, info.label) || strings.EqualFold(s, info.slug) {
			return st
		}
	}
	return StatusUnknown
}

func (s Status) info() statusInfo {
	if info, ok := statusTable[s]; ok {
		return info
	}
	return statusTable[StatusUnknown]
}

func (s Status) String() string { return s.info().label }

// Slug is the machine form stored on orders, e.g. "out-for-delivery".
func (s Status) Slug() string { return s.info().slug }

func (s Status) Notice() Notice { return s.info().notice }
