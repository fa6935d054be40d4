// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package assettocorsa

import (
	"testing"

	"github.com/race-engineering-center/ksana/shm"
	"github.com/race-engineering-center/ksana/shm/shmtest"

	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestAssettoCorsa(t *testing.T) {
	t.Parallel()

	RegisterFailHandler(Fail)
	RunSpecs(t, "sim/assettocorsa")
}

func testFrame() *FrameData {
	var f FrameData
	f.Graphics.PacketID = 123
	f.Graphics.Status = 1
	copy(f.Graphics.Content[:], "graphics telemetry")
	copy(f.Physics.Content[:], "physics telemetry")
	f.Static.SMVersion[0] = 0x2E31 // "1."
	f.Static.SMVersion[1] = 0x0037 // "7"
	f.Static.ACVersion[0] = 0x2E31
	f.Static.ACVersion[1] = 0x0039
	copy(f.Static.Content[:], "car and track data")
	return &f
}

var _ = Describe("FrameData", func() {
	It("serializes to the frame size", func() {
		data, err := testFrame().Serialize()
		Expect(err).ToNot(HaveOccurred())
		Expect(data).To(HaveLen(FrameSize))
	})

	It("round-trips every page", func() {
		f := testFrame()
		data, err := f.Serialize()
		Expect(err).ToNot(HaveOccurred())

		got, err := DeserializeFrame(data)
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(f))
	})

	It("rejects a frame shorter than the frame size", func() {
		_, err := DeserializeFrame(make([]byte, FrameSize-1))
		Expect(errors.Cause(err)).To(Equal(ErrFrameTooShort))
	})

	It("defaults to a frame that is not live", func() {
		var f FrameData
		Expect(f.Graphics.Live()).To(BeFalse())
	})
})

var _ = Describe("Connector", func() {
	var (
		o *shmtest.Opener
		c *Connector
	)

	publish := func(f *FrameData) (graphics, physics, static shm.WriteRegion) {
		data, err := f.Serialize()
		Expect(err).ToNot(HaveOccurred())

		graphics, err = o.CreateWrite(GraphicsSHMName, pageSize)
		Expect(err).ToNot(HaveOccurred())
		graphics.Write(0, data[:GraphicsPageSize])

		physics, err = o.CreateWrite(PhysicsSHMName, pageSize)
		Expect(err).ToNot(HaveOccurred())
		physics.Write(0, data[GraphicsPageSize:GraphicsPageSize+PhysicsPageSize])

		static, err = o.CreateWrite(StaticSHMName, pageSize)
		Expect(err).ToNot(HaveOccurred())
		static.Write(0, data[GraphicsPageSize+PhysicsPageSize:])
		return
	}

	BeforeEach(func() {
		o = shmtest.NewOpener()
		c = NewConnector(o)
	})

	It("fails to connect when a page is missing", func() {
		_, err := o.CreateWrite(GraphicsSHMName, pageSize)
		Expect(err).ToNot(HaveOccurred())

		Expect(c.Connect()).ToNot(Succeed())
	})

	It("fails to connect when the simulator has no session", func() {
		f := testFrame()
		f.Graphics.Status = 0
		publish(f)

		Expect(c.Connect()).ToNot(Succeed())
	})

	It("captures the three pages as one frame", func() {
		f := testFrame()
		publish(f)

		Expect(c.Connect()).To(Succeed())
		defer c.Disconnect()

		data, err := c.GetData()
		Expect(err).ToNot(HaveOccurred())

		got, err := DeserializeFrame(data)
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(f))
	})

	It("produces a frame on every call while the session is live", func() {
		publish(testFrame())

		Expect(c.Connect()).To(Succeed())
		defer c.Disconnect()

		for i := 0; i < 3; i++ {
			data, err := c.GetData()
			Expect(err).ToNot(HaveOccurred())
			Expect(data).To(HaveLen(FrameSize))
		}
	})

	It("returns no data after the simulator leaves the session", func() {
		f := testFrame()
		graphics, _, _ := publish(f)

		Expect(c.Connect()).To(Succeed())
		defer c.Disconnect()

		graphics.Write(graphicsStatusOffset, []byte{0, 0, 0, 0})

		data, err := c.GetData()
		Expect(err).ToNot(HaveOccurred())
		Expect(data).To(BeNil())
	})
})

var _ = Describe("Player", func() {
	var (
		o *shmtest.Opener
		p *Player
	)

	BeforeEach(func() {
		o = shmtest.NewOpener()
		p = NewPlayer(o)
	})

	It("creates the three pages", func() {
		Expect(p.Initialize()).To(Succeed())
		defer p.Stop()

		Expect(o.HasRegion(GraphicsSHMName)).To(BeTrue())
		Expect(o.HasRegion(PhysicsSHMName)).To(BeTrue())
		Expect(o.HasRegion(StaticSHMName)).To(BeTrue())
	})

	It("replays a frame a connector can capture back", func() {
		Expect(p.Initialize()).To(Succeed())
		defer p.Stop()

		f := testFrame()
		data, err := f.Serialize()
		Expect(err).ToNot(HaveOccurred())
		Expect(p.Update(data)).To(Succeed())

		c := NewConnector(o)
		Expect(c.Connect()).To(Succeed())
		defer c.Disconnect()

		captured, err := c.GetData()
		Expect(err).ToNot(HaveOccurred())

		got, err := DeserializeFrame(captured)
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(f))
	})

	It("rejects a short frame", func() {
		Expect(p.Initialize()).To(Succeed())
		defer p.Stop()

		Expect(p.Update(make([]byte, FrameSize-1))).ToNot(Succeed())
	})

	It("marks the graphics page off and removes the pages on Stop", func() {
		Expect(p.Initialize()).To(Succeed())

		f := testFrame()
		data, err := f.Serialize()
		Expect(err).ToNot(HaveOccurred())
		Expect(p.Update(data)).To(Succeed())

		region, err := o.OpenRead(GraphicsSHMName, pageSize)
		Expect(err).ToNot(HaveOccurred())
		mem := region.Bytes()

		p.Stop()
		Expect(mem[graphicsStatusOffset : graphicsStatusOffset+4]).To(Equal([]byte{0, 0, 0, 0}))
		Expect(o.HasRegion(GraphicsSHMName)).To(BeFalse())
		Expect(o.HasRegion(PhysicsSHMName)).To(BeFalse())
		Expect(o.HasRegion(StaticSHMName)).To(BeFalse())

		// Stop is idempotent.
		p.Stop()
	})
})
