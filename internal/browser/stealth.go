package browser

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay pauses for a random duration between min and max milliseconds.
func RandomDelay(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	time.Sleep(time.Duration(rand.Intn(max-min)+min) * time.Millisecond)
}

// TriggerLazyLoad scrolls the page in human-ish steps so that boards which
// render listings on scroll actually produce them.
func TriggerLazyLoad(page playwright.Page) {
	for i := 0; i < 3; i++ {
		page.Mouse().Wheel(0, 600)
		RandomDelay(200, 500)
	}
	page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	RandomDelay(300, 700)
}
