package lang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/strata/internal/model"
)

func extractDart(t *testing.T, src, path string) []*model.Component {
	t.Helper()
	comps, err := NewDartExtractor().Extract(context.Background(), []byte(src), path)
	require.NoError(t, err)
	return comps
}

func TestDartExtract_WidgetKind(t *testing.T) {
	t.Parallel()
	comps := extractDart(t, `
class LoginScreen extends StatelessWidget {
}
`, "lib/login_screen.dart")
	require.Len(t, comps, 1)
	c := comps[0]
	assert.Equal(t, model.KindWidget, c.Kind)
	assert.Equal(t, model.LangDart, c.Language)
	require.NotNil(t, c.Extends)
	assert.Equal(t, "StatelessWidget", c.Extends.Name)
	// No library declaration: the file stem is the qualifier.
	assert.Equal(t, "login_screen.LoginScreen", c.ID)
}

func TestDartExtract_LibraryNameAsPackage(t *testing.T) {
	t.Parallel()
	comps := extractDart(t, `
library app.auth;

class AuthService {
}
`, "lib/auth.dart")
	require.Len(t, comps, 1)
	assert.Equal(t, "app.auth.AuthService", comps[0].ID)
}

func TestDartExtract_StateSubclassIsWidget(t *testing.T) {
	t.Parallel()
	comps := extractDart(t, `
class _ProfilePageState extends State<ProfilePage> {
}
`, "lib/profile.dart")
	require.Len(t, comps, 1)
	assert.Equal(t, model.KindWidget, comps[0].Kind)
	assert.Equal(t, "State", comps[0].Extends.Name)
}

func TestDartExtract_MixinAndImplements(t *testing.T) {
	t.Parallel()
	comps := extractDart(t, `
class CartModel extends ChangeNotifier with DiagnosticableTreeMixin implements Summable {
}
`, "lib/cart.dart")
	require.Len(t, comps, 1)
	c := comps[0]
	require.NotNil(t, c.Extends)
	assert.Equal(t, "ChangeNotifier", c.Extends.Name)
	var names []string
	for _, ref := range c.Implements {
		names = append(names, ref.Name)
	}
	assert.Equal(t, []string{"DiagnosticableTreeMixin", "Summable"}, names)
}

func TestDartExtract_FieldsAndMethods(t *testing.T) {
	t.Parallel()
	comps := extractDart(t, `
class OrderService {
  final OrderRepository _repo;
  ApiClient client;

  OrderService(OrderRepository repo) : _repo = repo;

  Future<Order> load(String id) {
    return _repo.fetch(id);
  }

  void _invalidate() {
  }
}
`, "lib/order_service.dart")
	require.Len(t, comps, 1)
	c := comps[0]

	require.Len(t, c.Fields, 2)
	assert.Equal(t, "_repo", c.Fields[0].Name)
	assert.Equal(t, "private", c.Fields[0].Visibility)
	assert.Equal(t, "OrderRepository", c.Fields[0].Type)
	assert.Equal(t, "client", c.Fields[1].Name)
	assert.Equal(t, "public", c.Fields[1].Visibility)

	var methods []string
	for _, m := range c.Methods {
		methods = append(methods, m.Name)
	}
	assert.Equal(t, []string{"load", "_invalidate"}, methods)
	assert.Equal(t, "Future", c.Methods[0].ReturnType)
	assert.Equal(t, "private", c.Methods[1].Visibility)
}

func TestDartExtract_ServiceLocatorAndProvider(t *testing.T) {
	t.Parallel()
	comps := extractDart(t, `
class CheckoutScreen extends StatefulWidget {
  void submit(BuildContext context) {
    final pay = GetIt.I<PaymentService>();
    final cart = Provider.of<CartModel>(context);
  }
}
`, "lib/checkout.dart")
	require.Len(t, comps, 1)
	var names []string
	for _, ref := range comps[0].Injected {
		names = append(names, ref.Name)
	}
	assert.Equal(t, []string{"PaymentService", "CartModel"}, names)
}

func TestDartExtract_EnumAndMixinKinds(t *testing.T) {
	t.Parallel()
	comps := extractDart(t, `
enum Status {
}

mixin Loggable {
}
`, "lib/types.dart")
	require.Len(t, comps, 2)
	assert.Equal(t, model.KindEnum, comps[0].Kind)
	assert.Equal(t, model.KindInterface, comps[1].Kind)
}

func TestDartExtract_MalformedInputYieldsNothing(t *testing.T) {
	t.Parallel()
	comps := extractDart(t, ")))) not dart at all ((((", "lib/junk.dart")
	assert.Empty(t, comps)
}
