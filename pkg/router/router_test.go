package router

import (
	"bytes"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/zfogg/moodjournal/pkg/client"
	"github.com/zfogg/moodjournal/pkg/output"
)

func TestNavigateRecordsAndHints(t *testing.T) {
	color.NoColor = true
	buf := &bytes.Buffer{}
	prev := output.SetWriter(buf)
	defer output.SetWriter(prev)

	var nav client.Navigator = New(nil)
	r := nav.(*Router)

	r.Navigate("/dashboard")
	r.Navigate("/login")
	r.Navigate("/nowhere")

	assert.Equal(t, "/nowhere", r.Current())
	assert.Equal(t, []string{"/dashboard", "/login", "/nowhere"}, r.History())
	assert.Equal(t, DefaultHints["/dashboard"]+"\n"+DefaultHints["/login"]+"\n", buf.String())

	assert.Equal(t, "/dashboard", <-r.Changes())
	assert.Equal(t, "/login", <-r.Changes())
	assert.Equal(t, "/nowhere", <-r.Changes())
}

func TestNavigateNeverBlocks(t *testing.T) {
	prev := output.SetWriter(&bytes.Buffer{})
	defer output.SetWriter(prev)

	r := New(map[string]string{})
	for i := 0; i < 100; i++ {
		r.Navigate("/login")
	}
	assert.Len(t, r.History(), 100)
}

func TestConcurrentNavigate(t *testing.T) {
	prev := output.SetWriter(&bytes.Buffer{})
	defer output.SetWriter(prev)

	r := New(map[string]string{})
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Navigate("/login")
		}()
	}
	wg.Wait()

	assert.Len(t, r.History(), 20)
	assert.Equal(t, "/login", r.Current())
}
