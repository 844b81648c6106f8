package provisioning

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Workflow", func() {
	var (
		cloud    *mockCloud
		sink     *memorySink
		clock    *fakeClock
		workflow *Workflow
		req      Request
	)

	BeforeEach(func() {
		cloud = &mockCloud{}
		sink = &memorySink{}
		clock = newFakeClock()
		req = validRequest()
	})

	JustBeforeEach(func() {
		workflow = NewWorkflow(factoryFor(cloud),
			WithClock(clock),
			WithObserver(discardObserver()),
			WithSinks(sink),
			WithPollPolicy(60*time.Second, 20),
		)
	})

	Context("when the flavor does not exist", func() {
		BeforeEach(func() {
			cloud.GetFlavorByNameFunc = func(context.Context, string) (*ResourceHandle, error) {
				return nil, nil
			}
		})

		It("fails with a not-found error, creates nothing and rolls back", func() {
			err := workflow.Run(context.Background(), req)

			Expect(err).To(MatchError(ErrResourceNotFound))
			Expect(err.Error()).To(ContainSubstring(`flavor "m1.small"`))
			Expect(cloud.count("StartVM")).To(BeZero())
			Expect(cloud.count("CreateNetwork")).To(BeZero())
			Expect(cloud.count("DeleteService")).To(Equal(1))
			Expect(clock.sleepCount()).To(BeZero())
		})
	})

	Context("when the network is missing and the server becomes active on the third check", func() {
		BeforeEach(func() {
			var network *ResourceHandle
			cloud.GetNetworkByNameFunc = func(context.Context, string) (*ResourceHandle, error) {
				if network == nil {
					return nil, nil
				}
				return &ResourceHandle{ID: network.ID, Name: network.Name}, nil
			}
			cloud.CreateNetworkFunc = func(_ context.Context, name string) (*ResourceHandle, error) {
				network = &ResourceHandle{ID: "network-new", Name: name}
				return network, nil
			}
			cloud.GetServerByNameFunc = serverStatuses("BUILD", "BUILD", "ACTIVE")
		})

		It("creates the network once and reports the active server", func() {
			Expect(workflow.Run(context.Background(), req)).To(Succeed())

			Expect(cloud.count("CreateNetwork")).To(Equal(1))
			Expect(cloud.count("GetServerByName")).To(Equal(3))
			Expect(cloud.count("DeleteService")).To(BeZero())
			Expect(sink.messages()).To(HaveExactElements(
				"Created network net1",
				"Creating VM billing-worker-0 with flavor m1.small and image ubuntu-24.04 and network net1",
				"Provisioned VM billing-worker-0 with status Active",
			))
			Expect(sink.last()).To(ContainSubstring("Active"))
		})

		It("does not create the network again on a second run", func() {
			Expect(workflow.Run(context.Background(), req)).To(Succeed())
			cloud.GetServerByNameFunc = serverStatuses("ACTIVE")
			Expect(workflow.Run(context.Background(), req)).To(Succeed())

			Expect(cloud.count("CreateNetwork")).To(Equal(1))
		})
	})

	Context("when the server stays in BUILD", func() {
		BeforeEach(func() {
			cloud.GetServerByNameFunc = serverStatuses("BUILD")
		})

		It("times out after exactly twenty checks and rolls back", func() {
			err := workflow.Run(context.Background(), req)

			Expect(err).To(MatchError(ErrTimeout))
			var timeout *TimeoutError
			Expect(err).To(BeAssignableToTypeOf(&ProvisioningError{}))
			Expect(errors.As(err, &timeout)).To(BeTrue())
			Expect(timeout.Retries).To(Equal(20))
			Expect(timeout.Elapsed).To(Equal(20 * time.Minute))

			Expect(cloud.count("GetServerByName")).To(Equal(20))
			Expect(clock.sleepCount()).To(Equal(20))
			Expect(cloud.count("DeleteService")).To(Equal(1))
		})
	})

	Context("when the server creation returns no handle", func() {
		BeforeEach(func() {
			cloud.StartVMFunc = func(context.Context, ServerSpec) (*ResourceHandle, error) {
				return nil, nil
			}
		})

		It("fails with a launch error before polling and rolls back", func() {
			err := workflow.Run(context.Background(), req)

			Expect(err).To(MatchError(ErrLaunch))
			Expect(cloud.count("GetServerByName")).To(BeZero())
			Expect(clock.sleepCount()).To(BeZero())
			Expect(cloud.count("DeleteService")).To(Equal(1))
		})
	})

	Context("when a refresh returns nothing mid-poll", func() {
		BeforeEach(func() {
			calls := 0
			cloud.GetServerByNameFunc = func(_ context.Context, name string) (*ResourceHandle, error) {
				calls++
				if calls == 2 {
					return nil, nil
				}
				status := "BUILD"
				if calls >= 3 {
					status = "ACTIVE"
				}
				return &ResourceHandle{ID: "server-1", Name: name, Status: status}, nil
			}
		})

		It("keeps polling with the previous handle", func() {
			Expect(workflow.Run(context.Background(), req)).To(Succeed())
			Expect(cloud.count("GetServerByName")).To(Equal(3))
			Expect(cloud.count("DeleteService")).To(BeZero())
		})
	})
})
