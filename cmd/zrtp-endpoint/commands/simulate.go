package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"zrtp/internal/config"
	"zrtp/internal/transport"
)

func simulateCmd() *cobra.Command {
	var multiStream bool

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a two-endpoint loopback ZRTP negotiation to SecureState",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := resolveHome()
			if err != nil {
				return err
			}
			homeA := filepath.Join(base, "party-a")
			homeB := filepath.Join(base, "party-b")

			lb := transport.NewLoopback()
			cbA := newDemoCallback("A", lb)
			cbB := newDemoCallback("B", lb)

			sessA, cacheA, err := config.Build(config.Config{
				Home: homeA, ClientID: "zrtp-endpoint", Version: "1.10", SSRC: 0x1111,
				SASSignSupport: true,
			}, cbA)
			if err != nil {
				return err
			}
			defer cacheA.Close()

			sessB, cacheB, err := config.Build(config.Config{
				Home: homeB, ClientID: "zrtp-endpoint", Version: "1.10", SSRC: 0x2222,
				SASSignSupport: true,
			}, cbB)
			if err != nil {
				return err
			}
			defer cacheB.Close()

			cbA.peer, cbB.peer = sessB, sessA
			cbA.peerPub, cbB.peerPub = cbB.signPub, cbA.signPub

			if err := sessA.Start(); err != nil {
				return err
			}
			if err := sessB.Start(); err != nil {
				return err
			}
			if _, err := lb.Pump(200); err != nil {
				return fmt.Errorf("simulate: master negotiation did not converge: %w", err)
			}

			fmt.Printf("master A: %s  B: %s  SAS match: %v\n", sessA.State(), sessB.State(), sessA.SASValue() == sessB.SASValue())

			if !multiStream {
				return nil
			}

			lb2 := transport.NewLoopback()
			cbA2 := newDemoCallback("A-ms", lb2)
			cbB2 := newDemoCallback("B-ms", lb2)

			msA, msCacheA, err := config.Build(config.Config{
				Home: homeA, ClientID: "zrtp-endpoint", Version: "1.10", SSRC: 0x3333,
				MultiStream: true, MasterZRTPSess: sessA.MasterZRTPSess(), SASSignSupport: true,
			}, cbA2)
			if err != nil {
				return err
			}
			defer msCacheA.Close()

			msB, msCacheB, err := config.Build(config.Config{
				Home: homeB, ClientID: "zrtp-endpoint", Version: "1.10", SSRC: 0x4444,
				MultiStream: true, MasterZRTPSess: sessB.MasterZRTPSess(), SASSignSupport: true,
			}, cbB2)
			if err != nil {
				return err
			}
			defer msCacheB.Close()

			cbA2.peer, cbB2.peer = msB, msA
			cbA2.peerPub, cbB2.peerPub = cbB2.signPub, cbA2.signPub

			if err := msA.Start(); err != nil {
				return err
			}
			if err := msB.Start(); err != nil {
				return err
			}
			if _, err := lb2.Pump(200); err != nil {
				return fmt.Errorf("simulate: multistream negotiation did not converge: %w", err)
			}

			fmt.Printf("multistream A: %s  B: %s  SAS match: %v\n", msA.State(), msB.State(), msA.SASValue() == msB.SASValue())
			return nil
		},
	}

	cmd.Flags().BoolVar(&multiStream, "multistream", false, "also demonstrate a MultiStream second leg")
	return cmd
}
