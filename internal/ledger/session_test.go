package ledger_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"chainregistry/internal/ledger"
	"chainregistry/internal/ledger/mocks"
	"chainregistry/pkg/domain"
	dErrors "chainregistry/pkg/domain-errors"
)

const account = domain.Address("0x1111111111111111111111111111111111111111")

type SessionSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	provider *mocks.MockProvider
	contract *mocks.MockContract
	manager  *ledger.Manager
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.provider = mocks.NewMockProvider(s.ctrl)
	s.contract = mocks.NewMockContract(s.ctrl)
	s.provider.EXPECT().Available().Return(true).AnyTimes()
	s.manager = ledger.NewManager(s.provider)
}

func (s *SessionSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *SessionSuite) expectHappyConnect(balance *big.Int) {
	s.provider.EXPECT().RequestAccounts(gomock.Any()).Return([]domain.Address{account}, nil)
	s.provider.EXPECT().Bind(gomock.Any(), account).Return(s.contract, nil)
	s.provider.EXPECT().Balance(gomock.Any(), account).Return(balance, nil)
}

func (s *SessionSuite) assertCleared(sess ledger.Session) {
	s.False(sess.Connected)
	s.Empty(sess.AccountAddress)
	s.Nil(sess.Contract)
	s.Nil(sess.Balance)
	s.Equal(ledger.StateDisconnected, s.manager.State())
}

func (s *SessionSuite) TestConnect() {
	ctx := context.Background()

	s.Run("binds contract and reads balance", func() {
		s.SetupTest()
		wei, _ := new(big.Int).SetString("1500000000000000000", 10)
		s.expectHappyConnect(wei)

		sess, err := s.manager.Connect(ctx)
		s.Require().NoError(err)
		s.True(sess.Connected)
		s.True(sess.WalletPresent)
		s.Equal(account, sess.AccountAddress)
		s.Equal(s.contract, sess.Contract)
		s.Equal("1.5", sess.FormattedBalance())
		s.Equal(ledger.StateConnected, s.manager.State())
	})

	s.Run("already connected returns the current session", func() {
		s.SetupTest()
		s.expectHappyConnect(big.NewInt(0))
		_, err := s.manager.Connect(ctx)
		s.Require().NoError(err)

		sess, err := s.manager.Connect(ctx)
		s.Require().NoError(err)
		s.Equal(account, sess.AccountAddress)
		s.Equal("0", sess.FormattedBalance())
	})

	s.Run("balance failure keeps the session connected", func() {
		s.SetupTest()
		s.provider.EXPECT().RequestAccounts(gomock.Any()).Return([]domain.Address{account}, nil)
		s.provider.EXPECT().Bind(gomock.Any(), account).Return(s.contract, nil)
		s.provider.EXPECT().Balance(gomock.Any(), account).Return(nil, errors.New("rpc down"))

		sess, err := s.manager.Connect(ctx)
		s.Require().NoError(err)
		s.True(sess.Connected)
		s.Nil(sess.Balance)
		s.Empty(sess.FormattedBalance())
	})

	s.Run("declined prompt leaves session cleared", func() {
		s.SetupTest()
		s.provider.EXPECT().RequestAccounts(gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUserRejected, "user rejected the request"))

		sess, err := s.manager.Connect(ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUserRejected))
		s.True(sess.WalletPresent)
		s.assertCleared(sess)
	})

	s.Run("uncoded account failure is classified as rejection", func() {
		s.SetupTest()
		s.provider.EXPECT().RequestAccounts(gomock.Any()).Return(nil, errors.New("boom"))

		_, err := s.manager.Connect(ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeUserRejected))
	})

	s.Run("empty account list is a rejection", func() {
		s.SetupTest()
		s.provider.EXPECT().RequestAccounts(gomock.Any()).Return([]domain.Address{}, nil)

		sess, err := s.manager.Connect(ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeUserRejected))
		s.assertCleared(sess)
	})

	s.Run("bind failure clears all fields together", func() {
		s.SetupTest()
		s.provider.EXPECT().RequestAccounts(gomock.Any()).Return([]domain.Address{account}, nil)
		s.provider.EXPECT().Bind(gomock.Any(), account).Return(nil, errors.New("bad abi"))

		sess, err := s.manager.Connect(ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeWalletUnavailable))
		s.assertCleared(sess)

		_, err = s.manager.Contract()
		s.True(dErrors.HasCode(err, dErrors.CodeNotConnected))
	})
}

func (s *SessionSuite) TestConnect_NoWallet() {
	ctx := context.Background()

	s.Run("nil provider", func() {
		m := ledger.NewManager(nil)
		sess, err := m.Connect(ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeWalletUnavailable))
		s.False(sess.WalletPresent)
		s.False(sess.Connected)
		s.Equal(ledger.StateDisconnected, m.State())
	})

	s.Run("provider reports no wallet", func() {
		p := mocks.NewMockProvider(s.ctrl)
		p.EXPECT().Available().Return(false).AnyTimes()
		m := ledger.NewManager(p)

		_, err := m.Connect(ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeWalletUnavailable))
	})
}

func (s *SessionSuite) TestConnect_ConcurrentCallersShareOneAttempt() {
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})

	s.provider.EXPECT().RequestAccounts(gomock.Any()).
		DoAndReturn(func(context.Context) ([]domain.Address, error) {
			close(entered)
			<-release
			return []domain.Address{account}, nil
		}).Times(1)
	s.provider.EXPECT().Bind(gomock.Any(), account).Return(s.contract, nil).Times(1)
	s.provider.EXPECT().Balance(gomock.Any(), account).Return(big.NewInt(1), nil).Times(1)

	var wg sync.WaitGroup
	results := make([]ledger.Session, 3)
	errs := make([]error, 3)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = s.manager.Connect(ctx)
	}()
	<-entered
	s.Equal(ledger.StateConnecting, s.manager.State())

	for i := 1; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.manager.Connect(ctx)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := range results {
		s.Require().NoError(errs[i])
		s.Equal(account, results[i].AccountAddress)
	}
}

func (s *SessionSuite) TestConnect_CallerCancellationDoesNotAbortSharedAttempt() {
	entered := make(chan struct{})
	release := make(chan struct{})
	attemptErr := make(chan error, 1)

	s.provider.EXPECT().RequestAccounts(gomock.Any()).
		DoAndReturn(func(ctx context.Context) ([]domain.Address, error) {
			close(entered)
			<-release
			attemptErr <- ctx.Err()
			return []domain.Address{account}, nil
		}).Times(1)
	s.provider.EXPECT().Bind(gomock.Any(), account).Return(s.contract, nil).Times(1)
	s.provider.EXPECT().Balance(gomock.Any(), account).Return(big.NewInt(1), nil).Times(1)

	leaving, cancel := context.WithCancel(context.Background())
	leftErr := make(chan error, 1)
	go func() {
		_, err := s.manager.Connect(leaving)
		leftErr <- err
	}()
	<-entered

	type result struct {
		sess ledger.Session
		err  error
	}
	staying := make(chan result, 1)
	go func() {
		sess, err := s.manager.Connect(context.Background())
		staying <- result{sess, err}
	}()

	cancel()
	err := <-leftErr
	s.True(dErrors.HasCode(err, dErrors.CodeUserRejected), "got %v", err)

	close(release)
	s.NoError(<-attemptErr, "shared attempt keeps running after one caller leaves")
	got := <-staying
	s.Require().NoError(got.err)
	s.Equal(account, got.sess.AccountAddress)
	s.Equal(ledger.StateConnected, s.manager.State())
}

func (s *SessionSuite) TestConnect_AttemptIsBoundedByConnectTimeout() {
	s.manager = ledger.NewManager(s.provider, ledger.WithConnectTimeout(20*time.Millisecond))
	s.provider.EXPECT().RequestAccounts(gomock.Any()).
		DoAndReturn(func(ctx context.Context) ([]domain.Address, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	sess, err := s.manager.Connect(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeUserRejected), "got %v", err)
	s.assertCleared(sess)
}

func (s *SessionSuite) TestDisconnect() {
	ctx := context.Background()

	s.Run("clears account and contract", func() {
		s.SetupTest()
		s.expectHappyConnect(big.NewInt(5))
		_, err := s.manager.Connect(ctx)
		s.Require().NoError(err)

		s.manager.Disconnect()

		sess := s.manager.Snapshot()
		s.True(sess.WalletPresent)
		s.assertCleared(sess)
		_, err = s.manager.Account()
		s.True(dErrors.HasCode(err, dErrors.CodeNotConnected))
	})

	s.Run("provider removal marks wallet absent", func() {
		s.SetupTest()
		s.expectHappyConnect(big.NewInt(5))
		_, err := s.manager.Connect(ctx)
		s.Require().NoError(err)

		s.manager.ProviderRemoved()

		sess := s.manager.Snapshot()
		s.False(sess.WalletPresent)
		s.assertCleared(sess)
	})
}

func (s *SessionSuite) TestSignMessage() {
	ctx := context.Background()

	s.Run("requires a connected session", func() {
		s.SetupTest()
		_, err := s.manager.SignMessage(ctx, "hello")
		s.True(dErrors.HasCode(err, dErrors.CodeNotConnected))
	})

	s.Run("signs with the connected account", func() {
		s.SetupTest()
		s.expectHappyConnect(big.NewInt(1))
		_, err := s.manager.Connect(ctx)
		s.Require().NoError(err)
		s.provider.EXPECT().SignMessage(gomock.Any(), account, "hello").Return("0xsig", nil)

		sig, err := s.manager.SignMessage(ctx, "hello")
		s.Require().NoError(err)
		s.Equal("0xsig", sig)
	})

	s.Run("declined signature is a rejection", func() {
		s.SetupTest()
		s.expectHappyConnect(big.NewInt(1))
		_, err := s.manager.Connect(ctx)
		s.Require().NoError(err)
		s.provider.EXPECT().SignMessage(gomock.Any(), account, "hello").Return("", errors.New("denied"))

		_, err = s.manager.SignMessage(ctx, "hello")
		s.True(dErrors.HasCode(err, dErrors.CodeUserRejected))
	})
}
