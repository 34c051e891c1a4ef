package notifier

import (
	"context"
	"fmt"
)

// Alert describes one price-drop notification for one recipient. Sends are
// best-effort: a failed send is reported to the caller and goes no further.
type Alert struct {
	RecipientEmail string
	ProductName    string
	ProductURL     string
	OldPrice       int64
	NewPrice       int64
}

type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

func alertSubject() string {
	return "Price Drop Alert!"
}

func alertBody(alert Alert) string {
	return fmt.Sprintf(`Hi there,

Great news! The price of %s has dropped by more than 25%%.
Previous Price: %d
New Price: %d

Check it out now: %s
`, alert.ProductName, alert.OldPrice, alert.NewPrice, alert.ProductURL)
}
